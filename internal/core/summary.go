package core

// Stats summarises a set of transactions.
type Stats struct {
	Income  Money `json:"income"`
	Expense Money `json:"expense"`
	Balance Money `json:"balance"`
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name  string `json:"name"`
	Value Money  `json:"value"`
}

// MonthTotals is one point of the income/expense comparison chart.
type MonthTotals struct {
	Name    string `json:"name"`  // "Jan 2024"
	Month   string `json:"month"` // "2024-01"
	Income  Money  `json:"income"`
	Expense Money  `json:"expense"`
}

// Activity is one entry of the recent activity feed.
type Activity struct {
	ID   int64  `json:"id"`
	Date string `json:"date"`
	Text string `json:"text"`
	Type TxType `json:"type"`
}
