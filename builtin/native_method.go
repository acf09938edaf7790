// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/vechain/incentive/thor"
	"github.com/vechain/incentive/xenv"
)

// ErrBadArgs is returned when call arguments cannot be decoded.
var ErrBadArgs = errors.New("bad arguments")

// Method is a builtin entrypoint callable by name.
type Method struct {
	contract *contract
	name     string
	readOnly bool
	run      func(env *env) (any, error)
}

func (m *Method) Name() string          { return m.name }
func (m *Method) Contract() string      { return m.contract.name }
func (m *Method) Address() thor.Address { return m.contract.Address }

// ReadOnly methods never change state.
func (m *Method) ReadOnly() bool { return m.readOnly }

// Call runs the method for caller. args is a JSON object of named arguments.
func (m *Method) Call(xe *xenv.Environment, caller thor.Address, args json.RawMessage) (out any, err error) {
	defer func() {
		// handle panic in env.Args
		if e := recover(); e != nil {
			if ae, ok := e.(*argsError); ok {
				err = errors.WithMessage(ErrBadArgs, ae.cause.Error())
				return
			}
			err = fmt.Errorf("native %s.%s: %v", m.contract.name, m.name, e)
		}
	}()

	return m.run(&env{
		Environment: xe,
		Caller:      caller,
		input:       args,
	})
}

type argsError struct {
	cause error
}

// env env of native call invocation.
type env struct {
	*xenv.Environment
	Caller thor.Address

	input json.RawMessage
}

// Args unpack input into args.
func (e *env) Args(v any) {
	if len(e.input) == 0 {
		return
	}
	if err := json.Unmarshal(e.input, v); err != nil {
		// Method.Call will handle it
		panic(&argsError{err})
	}
}
