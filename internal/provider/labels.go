package provider

import "stocklab/internal/models"

// Statement row labels as the vendor publishes them, in vendor row order.
// The normalizer's static column mapping references these exact strings;
// a consistency test in normalize keeps the two in sync.

var incomeLabels = []string{
	"Total Revenue",
	"Cost of Revenue",
	"Gross Profit",
	"Operating Expense",
	"Operating Income",
	"Net Non Operating Interest Income Expense",
	"Other Income Expense",
	"Pretax Income",
	"Tax Provision",
	"Earnings from Equity Interest Net of Tax",
	"Net Income Common Stockholders",
	"Diluted NI Available to Com Stockholders",
	"Basic EPS",
	"Diluted EPS",
	"Basic Average Shares",
	"Diluted Average Shares",
	"Total Operating Income as Reported",
	"Total Expenses",
	"Net Income from Continuing & Discontinued Operation",
	"Normalized Income",
	"Interest Income",
	"Interest Expense",
	"Net Interest Income",
	"EBIT",
	"EBITDA",
	"Reconciled Cost of Revenue",
	"Reconciled Depreciation",
	"Net Income from Continuing Operation Net Minority Interest",
	"Total Unusual Items",
	"Normalized EBITDA",
	"Tax Rate for Calcs",
	"Tax Effect of Unusual Items",
}

var balanceLabels = []string{
	"Total Assets",
	"Total Liabilities Net Minority Interest",
	"Total Equity Gross Minority Interest",
	"Total Capitalization",
	"Common Stock Equity",
	"Capital Lease Obligations",
	"Net Tangible Assets",
	"Working Capital",
	"Invested Capital",
	"Tangible Book Value",
	"Total Debt",
	"Net Debt",
	"Share Issued",
	"Ordinary Shares Number",
	"Preferred Shares Number",
	"Treasury Shares Number",
}

var cashFlowLabels = []string{
	"Operating Cash Flow",
	"Investing Cash Flow",
	"Financing Cash Flow",
	"End Cash Position",
	"Capital Expenditure",
	"Issuance of Capital Stock",
	"Issuance of Debt",
	"Repayment of Debt",
	"Repurchase of Capital Stock",
	"Changes in Cash",
	"Beginning Cash Position",
	"Income Tax Paid Supplemental Data",
	"Interest Paid Supplemental Data",
	"Free Cash Flow",
}

// StatementLabels returns the vendor row labels requested for a statement
// kind, in vendor row order. The returned slice must not be mutated.
func StatementLabels(kind models.StatementKind) []string {
	switch kind {
	case models.KindIncome:
		return incomeLabels
	case models.KindBalance:
		return balanceLabels
	case models.KindCashFlow:
		return cashFlowLabels
	default:
		return nil
	}
}
