package rpc

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/rpcclient"

	"github.com/thanhnp/explorer-apis/internal/config"
	"github.com/thanhnp/explorer-apis/pkg/semver"
)

// Compatible node JSON-RPC API versions
var compatibleNodeAPIs = []semver.Semver{
	semver.NewSemver(1, 0, 0),
	semver.NewSemver(2, 0, 0),
	semver.NewSemver(3, 0, 0),
	semver.NewSemver(4, 0, 0),
	semver.NewSemver(5, 0, 0),
	semver.NewSemver(6, 0, 0),
}

// BlockVerbose mirrors the node's verbose getblock response. Nonce is a
// hex string: Equihash chains use a 256-bit nonce that does not fit the
// numeric field bitcoind-style clients expect.
type BlockVerbose struct {
	Hash          string   `json:"hash"`
	Confirmations int64    `json:"confirmations"`
	Size          int      `json:"size"`
	Height        int64    `json:"height"`
	Version       int32    `json:"version"`
	MerkleRoot    string   `json:"merkleroot"`
	Tx            []string `json:"tx"`
	Time          int64    `json:"time"`
	Nonce         string   `json:"nonce"`
	Solution      string   `json:"solution"`
	Bits          string   `json:"bits"`
	Difficulty    float64  `json:"difficulty"`
	ChainWork     string   `json:"chainwork"`
	PreviousHash  string   `json:"previousblockhash"`
	NextHash      string   `json:"nextblockhash"`
}

// BlockHeaderVerbose mirrors the node's verbose getblockheader response.
// Confirmations is -1 when the block is not on the main chain.
type BlockHeaderVerbose struct {
	Hash          string `json:"hash"`
	Height        int64  `json:"height"`
	Confirmations int64  `json:"confirmations"`
	Time          int64  `json:"time"`
	ChainWork     string `json:"chainwork"`
	PreviousHash  string `json:"previousblockhash"`
	NextHash      string `json:"nextblockhash"`
}

// ScriptPubKey is the decoded output script of a transaction output.
type ScriptPubKey struct {
	Hex       string   `json:"hex"`
	Type      string   `json:"type"`
	Addresses []string `json:"addresses"`
}

// TxVin is a verbose transaction input. Coinbase carries the raw input
// script hex for the block's coinbase transaction.
type TxVin struct {
	Coinbase string `json:"coinbase"`
	Txid     string `json:"txid"`
	Vout     uint32 `json:"vout"`
}

// TxVout is a verbose transaction output. Value is denominated in coins.
type TxVout struct {
	Value        float64      `json:"value"`
	N            uint32       `json:"n"`
	ScriptPubKey ScriptPubKey `json:"scriptPubKey"`
}

// TxVerbose mirrors the node's verbose getrawtransaction response, which
// resolves output scripts into addresses and amounts.
type TxVerbose struct {
	Txid string   `json:"txid"`
	Vin  []TxVin  `json:"vin"`
	Vout []TxVout `json:"vout"`
}

// NodeClient wraps the chain node's JSON-RPC interface. The explorer-only
// calls (getblockhashes, raw getblock) go through RawRequest since the
// typed client does not know them or cannot decode this chain's headers.
type NodeClient struct {
	client *rpcclient.Client
	config *config.ChainConfig
}

// NewNodeClient connects to the chain node per the configuration: HTTP
// POST mode for daemon-style nodes, websocket mode (with an API version
// compatibility check) otherwise.
func NewNodeClient(cfg *config.ChainConfig) (*NodeClient, error) {
	var certs []byte
	var err error

	if !cfg.DisableTLS && cfg.Cert != "" {
		certs, err = os.ReadFile(cfg.Cert)
		if err != nil {
			return nil, fmt.Errorf("failed to read certificate: %w", err)
		}
	}

	var connCfg *rpcclient.ConnConfig
	if cfg.HTTPMode {
		connCfg = &rpcclient.ConnConfig{
			Host:         cfg.Host,
			User:         cfg.User,
			Pass:         cfg.Pass,
			HTTPPostMode: true,
			DisableTLS:   cfg.DisableTLS,
			Certificates: certs,
		}
	} else {
		connCfg = &rpcclient.ConnConfig{
			Host:                 cfg.Host,
			Endpoint:             "ws",
			User:                 cfg.User,
			Pass:                 cfg.Pass,
			Certificates:         certs,
			DisableTLS:           cfg.DisableTLS,
			DisableAutoReconnect: false,
		}
	}

	client, err := rpcclient.New(connCfg, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create RPC client: %w", err)
	}

	if !cfg.HTTPMode {
		// Ensure the RPC server has a compatible API version.
		ver, err := client.Version()
		if err != nil {
			client.Shutdown()
			return nil, fmt.Errorf("unable to get node RPC version: %w", err)
		}
		apiVer := ver["btcdjsonrpcapi"]
		nodeVer := semver.NewSemver(apiVer.Major, apiVer.Minor, apiVer.Patch)
		if !semver.AnyCompatible(compatibleNodeAPIs, nodeVer) {
			client.Shutdown()
			return nil, fmt.Errorf("node JSON-RPC server does not have a "+
				"compatible API version. Advertises %v but requires one of: %v",
				nodeVer, compatibleNodeAPIs)
		}
	}

	return &NodeClient{
		client: client,
		config: cfg,
	}, nil
}

// Close closes the RPC client connection
func (c *NodeClient) Close() {
	c.client.Shutdown()
}

// rawCall issues a JSON-RPC request outside the typed client surface and
// decodes the result into out.
func (c *NodeClient) rawCall(method string, params []interface{}, out interface{}) error {
	rawParams := make([]json.RawMessage, 0, len(params))
	for _, param := range params {
		data, err := json.Marshal(param)
		if err != nil {
			return fmt.Errorf("failed to marshal %s param: %w", method, err)
		}
		rawParams = append(rawParams, data)
	}

	result, err := c.client.RawRequest(method, rawParams)
	if err != nil {
		return normalizeError(err)
	}
	if err := json.Unmarshal(result, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}

// GetBlockHashByHeight returns the block hash at the given height
func (c *NodeClient) GetBlockHashByHeight(height int64) (string, error) {
	var hash string
	if err := c.rawCall("getblockhash", []interface{}{height}, &hash); err != nil {
		return "", err
	}
	return hash, nil
}

// GetBlockVerbose returns the node's native block representation for a
// given hash: header metadata plus the ordered transaction hash list.
func (c *NodeClient) GetBlockVerbose(hash string) (*BlockVerbose, error) {
	var block BlockVerbose
	if err := c.rawCall("getblock", []interface{}{hash, 1}, &block); err != nil {
		return nil, err
	}
	return &block, nil
}

// GetBlockHeaderVerbose returns header metadata for a given hash
func (c *NodeClient) GetBlockHeaderVerbose(hash string) (*BlockHeaderVerbose, error) {
	var header BlockHeaderVerbose
	if err := c.rawCall("getblockheader", []interface{}{hash, true}, &header); err != nil {
		return nil, err
	}
	return &header, nil
}

// GetRawBlock returns the serialized block bytes for a given hash
func (c *NodeClient) GetRawBlock(hash string) ([]byte, error) {
	var rawHex string
	if err := c.rawCall("getblock", []interface{}{hash, 0}, &rawHex); err != nil {
		return nil, err
	}
	raw, err := hex.DecodeString(rawHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode raw block %s: %w", hash, err)
	}
	return raw, nil
}

// GetBlockHashesByTimestamp returns the hashes of blocks whose timestamps
// fall in [low, high), newest last, via the node's timestamp index.
func (c *NodeClient) GetBlockHashesByTimestamp(high, low int64) ([]string, error) {
	var hashes []string
	if err := c.rawCall("getblockhashes", []interface{}{high, low}, &hashes); err != nil {
		return nil, err
	}
	return hashes, nil
}

// GetDetailedTransaction returns the verbose transaction with output
// amounts and resolved addresses for a given txid.
func (c *NodeClient) GetDetailedTransaction(txid string) (*TxVerbose, error) {
	var tx TxVerbose
	if err := c.rawCall("getrawtransaction", []interface{}{txid, 1}, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}
