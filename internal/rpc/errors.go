package rpc

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
)

// ErrNotFound reports that the node does not know the requested hash or
// height. Callers branch with errors.Is and surface an empty result rather
// than a failure.
var ErrNotFound = errors.New("not found")

// normalizeError maps the node's duck-typed RPC error codes onto tagged
// errors. Codes -5 (invalid address or key) and -8 (invalid parameter) are
// both how the node spells "no such block"; everything else propagates
// unchanged as a collaborator failure.
func normalizeError(err error) error {
	if err == nil {
		return nil
	}
	var rpcErr *btcjson.RPCError
	if errors.As(err, &rpcErr) {
		switch rpcErr.Code {
		case btcjson.ErrRPCInvalidAddressOrKey, btcjson.ErrRPCInvalidParameter:
			return fmt.Errorf("%w: %s", ErrNotFound, rpcErr.Message)
		}
	}
	return err
}
