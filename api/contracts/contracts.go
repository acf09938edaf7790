// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contracts

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/incentive/api/utils"
	"github.com/vechain/incentive/builtin"
	"github.com/vechain/incentive/runtime"
	"github.com/vechain/incentive/thor"
)

type Contracts struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Contracts {
	return &Contracts{rt}
}

func (c *Contracts) handleList(w http.ResponseWriter, _ *http.Request) error {
	var (
		list  []*Contract
		index = make(map[string]*Contract)
	)
	for _, m := range builtin.Methods() {
		ct, ok := index[m.Contract()]
		if !ok {
			ct = &Contract{Name: m.Contract(), Address: m.Address()}
			index[m.Contract()] = ct
			list = append(list, ct)
		}
		ct.Methods = append(ct.Methods, Method{Name: m.Name(), ReadOnly: m.ReadOnly()})
	}
	return utils.WriteJSON(w, list)
}

// queryArgs turns url query values into a json object of string arguments.
// The reserved key "caller" is not an argument.
func queryArgs(r *http.Request) (json.RawMessage, error) {
	query := r.URL.Query()
	args := make(map[string]string, len(query))
	for k, v := range query {
		if k == "caller" || len(v) == 0 {
			continue
		}
		args[k] = v[0]
	}
	if len(args) == 0 {
		return nil, nil
	}
	return json.Marshal(args)
}

func (c *Contracts) handleRead(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)

	var caller thor.Address
	if s := req.URL.Query().Get("caller"); s != "" {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "caller"))
		}
		caller = addr
	}
	args, err := queryArgs(req)
	if err != nil {
		return utils.BadRequest(err)
	}

	out, err := c.rt.Read(vars["contract"], vars["method"], caller, args)
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, out)
}

func (c *Contracts) handleCall(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)

	var body CallData
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	m, ok := builtin.FindMethod(vars["contract"], vars["method"])
	if !ok {
		return utils.NotFound(errors.Errorf("method %s.%s not found", vars["contract"], vars["method"]))
	}

	var (
		out *runtime.Output
		err error
	)
	if m.ReadOnly() {
		out, err = c.rt.Read(m.Contract(), m.Name(), body.Caller, body.Args)
	} else {
		out, err = c.rt.Call(m.Contract(), m.Name(), body.Caller, body.Args)
	}
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, out)
}

func convertError(err error) error {
	switch {
	case errors.Is(err, runtime.ErrUnknownMethod):
		return utils.NotFound(err)
	case errors.Is(err, runtime.ErrNotReadOnly):
		return utils.MethodNotAllowed(err)
	case errors.Is(err, builtin.ErrBadArgs):
		return utils.BadRequest(err)
	}
	return err
}

func (c *Contracts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /contracts").
		HandlerFunc(utils.WrapHandlerFunc(c.handleList))
	sub.Path("/{contract}/{method}").
		Methods(http.MethodGet).
		Name("GET /contracts/{contract}/{method}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleRead))
	sub.Path("/{contract}/{method}").
		Methods(http.MethodPost).
		Name("POST /contracts/{contract}/{method}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleCall))
}
