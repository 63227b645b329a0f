package models

// PoolInfo identifies the mining pool attributed to a block. Both fields
// are empty when no coinbase signature matched, which serializes as {}.
type PoolInfo struct {
	PoolName string `json:"poolName,omitempty"`
	URL      string `json:"url,omitempty"`
}

// BlockDetail is the full block record served by the block endpoint.
// Confirmations is a derived view against the current chain tip and is
// refreshed on every read; every other field is immutable once built.
type BlockDetail struct {
	Hash              string   `json:"hash"`
	Size              int      `json:"size"`
	Height            int64    `json:"height"`
	Version           int32    `json:"version"`
	MerkleRoot        string   `json:"merkleroot"`
	Tx                []string `json:"tx"`
	Time              int64    `json:"time"`
	Nonce             string   `json:"nonce"`
	Solution          string   `json:"solution"`
	Bits              string   `json:"bits"`
	Difficulty        float64  `json:"difficulty"`
	ChainWork         string   `json:"chainwork"`
	Confirmations     int64    `json:"confirmations"`
	PreviousBlockHash *string  `json:"previousblockhash"`
	NextBlockHash     *string  `json:"nextblockhash"`
	Reward            float64  `json:"reward"`
	IsMainChain       bool     `json:"isMainChain"`
	PoolInfo          PoolInfo `json:"poolInfo"`
	MinedBy           string   `json:"minedBy,omitempty"`
}

// BlockSummary is the lightweight block record used by date-windowed
// listings. It intentionally omits anything that would require a full
// block deserialization to compute.
type BlockSummary struct {
	Height   int64    `json:"height"`
	Size     int      `json:"size"`
	Hash     string   `json:"hash"`
	Time     int64    `json:"time"`
	TxLength int      `json:"txlength"`
	PoolInfo PoolInfo `json:"poolInfo"`
	MinedBy  string   `json:"minedBy,omitempty"`
}

// Pagination carries the cursor for walking block listings day by day.
type Pagination struct {
	Next      string `json:"next"`
	Prev      string `json:"prev"`
	CurrentTs int64  `json:"currentTs"`
	Current   string `json:"current"`
	IsToday   bool   `json:"isToday"`
	More      bool   `json:"more"`
	MoreTs    int64  `json:"moreTs,omitempty"`
}

// BlockList is the response body of the block listing endpoint.
type BlockList struct {
	Blocks     []*BlockSummary `json:"blocks"`
	Length     int             `json:"length"`
	Pagination *Pagination     `json:"pagination"`
}

// RawBlock wraps a hex-encoded raw block.
type RawBlock struct {
	RawBlock string `json:"rawblock"`
}

// BlockIndex maps a height to its block hash.
type BlockIndex struct {
	BlockHash string `json:"blockHash"`
}
