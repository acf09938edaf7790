// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/incentive/api/utils"
	"github.com/vechain/incentive/runtime"
	"github.com/vechain/incentive/thor"
)

// Head is the committed call position of the node.
type Head struct {
	Genesis thor.Bytes32 `json:"genesis"`
	Number  uint32       `json:"number"`
	Time    uint64       `json:"time"`
}

type Node struct {
	rt      *runtime.Runtime
	genesis thor.Bytes32
}

func New(rt *runtime.Runtime, genesis thor.Bytes32) *Node {
	return &Node{rt, genesis}
}

func (n *Node) handleHead(w http.ResponseWriter, _ *http.Request) error {
	head := n.rt.Head()
	return utils.WriteJSON(w, &Head{
		Genesis: n.genesis,
		Number:  head.Number,
		Time:    head.Time,
	})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/head").
		Methods(http.MethodGet).
		Name("GET /node/head").
		HandlerFunc(utils.WrapHandlerFunc(n.handleHead))
}
