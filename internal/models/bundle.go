package models

// DataBundle carries the formatted market context handed to every
// agent. The reasoning layer passes it through opaquely; only the
// agents interpret its contents.
type DataBundle struct {
	Ticker           string `json:"ticker"`
	CompanyName      string `json:"company_name"`
	TradeDate        string `json:"trade_date"`
	StockSummary     string `json:"stock_summary"`
	NewsSummary      string `json:"news_summary"`
	FinancialSummary string `json:"financial_summary"`
}
