package domain

// LotRecord is one persisted inventory lot. All value fields are kept as
// entered (text), including the decimal-looking ones; timestamps are
// ISO-8601 strings so the inventory file stays hand-readable.
type LotRecord struct {
	ItemName    string `json:"item_name"`
	Unit        string `json:"unit"`
	Batch       string `json:"batch"`
	ExpDt       string `json:"exp_dt"`
	MRP         string `json:"mrp"`
	PTR         string `json:"ptr"`
	GSTPercent  string `json:"gst_percent"`
	Qty         string `json:"qty"`
	AddedAt     string `json:"added_at"`
	LastUpdated string `json:"last_updated"`
}

// LineItem is one row of the bill being entered. The fields after Qty are
// computed or free-form columns of the entry grid; the engine carries them
// through drafts untouched and drops them on commit.
type LineItem struct {
	ItemName   string `json:"item_name"`
	Unit       string `json:"unit"`
	Batch      string `json:"batch"`
	ExpDt      string `json:"exp_dt"`
	MRP        string `json:"mrp"`
	PTR        string `json:"ptr"`
	GSTPercent string `json:"gst_percent"`
	Qty        string `json:"qty"`
	Fr         string `json:"fr"`
	DPercent   string `json:"d_percent"`
	Disc       string `json:"disc"`
	Base       string `json:"base"`
	Amount     string `json:"amount"`
	LP         string `json:"lp"`
	Locat      string `json:"locat"`
}

// SessionDraft is the uncommitted working set: the rows entered so far plus
// the bill header fields. Written wholesale on every edit, read back once at
// startup, discarded on commit or explicit clear.
type SessionDraft struct {
	Inventory []LineItem `json:"inventory"`
	Party     string     `json:"party"`
	EntryDt   string     `json:"entry_dt"`
	BillNo    string     `json:"bill_no"`
	BillDt    string     `json:"bill_dt"`
}

// CommitResult is the aggregate outcome of folding a bill into the
// inventory. It is the only per-commit feedback the engine produces.
type CommitResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// IndexEntry is one name-index row: the representative lot's display fields
// for autocomplete. Quantity is deliberately absent; the batch listing is
// the view that carries stock levels.
type IndexEntry struct {
	ItemName   string `json:"item_name"`
	Unit       string `json:"unit"`
	Batch      string `json:"batch"`
	ExpDt      string `json:"exp_dt"`
	MRP        string `json:"mrp"`
	PTR        string `json:"ptr"`
	GSTPercent string `json:"gst_percent"`
}

type CommitRequest struct {
	Items []LineItem `json:"items"`
}

type BatchListResponse struct {
	Batches []LotRecord `json:"batches"`
}

type ValidationResponse struct {
	Valid   bool   `json:"valid"`
	Problem string `json:"problem,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
}

// Actor is the authenticated operator attached to a request context.
type Actor struct {
	Username string
}
