package normalize

import "stocklab/internal/models"

// Static mapping tables from vendor row labels to fixed-schema columns.
// The labels must match provider.StatementLabels exactly; a test enforces it.

var incomeFields = []fieldSpec[models.IncomeStatement]{
	{"Total Revenue", func(r *models.IncomeStatement, v string) { r.TotalRevenue = v }},
	{"Cost of Revenue", func(r *models.IncomeStatement, v string) { r.CostOfRevenue = v }},
	{"Gross Profit", func(r *models.IncomeStatement, v string) { r.GrossProfit = v }},
	{"Operating Expense", func(r *models.IncomeStatement, v string) { r.OperatingExpense = v }},
	{"Operating Income", func(r *models.IncomeStatement, v string) { r.OperatingIncome = v }},
	{"Net Non Operating Interest Income Expense", func(r *models.IncomeStatement, v string) { r.NetNonOpInterest = v }},
	{"Other Income Expense", func(r *models.IncomeStatement, v string) { r.OtherIncomeExpense = v }},
	{"Pretax Income", func(r *models.IncomeStatement, v string) { r.PretaxIncome = v }},
	{"Tax Provision", func(r *models.IncomeStatement, v string) { r.TaxProvision = v }},
	{"Earnings from Equity Interest Net of Tax", func(r *models.IncomeStatement, v string) { r.EquityInterestNet = v }},
	{"Net Income Common Stockholders", func(r *models.IncomeStatement, v string) { r.NetIncomeCommon = v }},
	{"Diluted NI Available to Com Stockholders", func(r *models.IncomeStatement, v string) { r.DilutedNIAvailable = v }},
	{"Basic EPS", func(r *models.IncomeStatement, v string) { r.BasicEPS = v }},
	{"Diluted EPS", func(r *models.IncomeStatement, v string) { r.DilutedEPS = v }},
	{"Basic Average Shares", func(r *models.IncomeStatement, v string) { r.BasicAvgShares = v }},
	{"Diluted Average Shares", func(r *models.IncomeStatement, v string) { r.DilutedAvgShares = v }},
	{"Total Operating Income as Reported", func(r *models.IncomeStatement, v string) { r.TotalOpIncomeReported = v }},
	{"Total Expenses", func(r *models.IncomeStatement, v string) { r.TotalExpenses = v }},
	{"Net Income from Continuing & Discontinued Operation", func(r *models.IncomeStatement, v string) { r.NetIncomeContDiscont = v }},
	{"Normalized Income", func(r *models.IncomeStatement, v string) { r.NormalizedIncome = v }},
	{"Interest Income", func(r *models.IncomeStatement, v string) { r.InterestIncome = v }},
	{"Interest Expense", func(r *models.IncomeStatement, v string) { r.InterestExpense = v }},
	{"Net Interest Income", func(r *models.IncomeStatement, v string) { r.NetInterestIncome = v }},
	{"EBIT", func(r *models.IncomeStatement, v string) { r.EBIT = v }},
	{"EBITDA", func(r *models.IncomeStatement, v string) { r.EBITDA = v }},
	{"Reconciled Cost of Revenue", func(r *models.IncomeStatement, v string) { r.ReconciledCostOfRev = v }},
	{"Reconciled Depreciation", func(r *models.IncomeStatement, v string) { r.ReconciledDepr = v }},
	{"Net Income from Continuing Operation Net Minority Interest", func(r *models.IncomeStatement, v string) { r.NetIncomeContinuing = v }},
	{"Total Unusual Items", func(r *models.IncomeStatement, v string) { r.TotalUnusualItems = v }},
	{"Normalized EBITDA", func(r *models.IncomeStatement, v string) { r.NormalizedEBITDA = v }},
	{"Tax Rate for Calcs", func(r *models.IncomeStatement, v string) { r.TaxRateForCalcs = v }},
	{"Tax Effect of Unusual Items", func(r *models.IncomeStatement, v string) { r.TaxEffectUnusual = v }},
}

var balanceFields = []fieldSpec[models.BalanceSheet]{
	{"Total Assets", func(r *models.BalanceSheet, v string) { r.TotalAssets = v }},
	{"Total Liabilities Net Minority Interest", func(r *models.BalanceSheet, v string) { r.TotalLiabilities = v }},
	{"Total Equity Gross Minority Interest", func(r *models.BalanceSheet, v string) { r.TotalEquity = v }},
	{"Total Capitalization", func(r *models.BalanceSheet, v string) { r.TotalCapitalizn = v }},
	{"Common Stock Equity", func(r *models.BalanceSheet, v string) { r.CommonStockEquity = v }},
	{"Capital Lease Obligations", func(r *models.BalanceSheet, v string) { r.CapitalLeaseOblig = v }},
	{"Net Tangible Assets", func(r *models.BalanceSheet, v string) { r.NetTangibleAssets = v }},
	{"Working Capital", func(r *models.BalanceSheet, v string) { r.WorkingCapital = v }},
	{"Invested Capital", func(r *models.BalanceSheet, v string) { r.InvestedCapital = v }},
	{"Tangible Book Value", func(r *models.BalanceSheet, v string) { r.TangibleBookValue = v }},
	{"Total Debt", func(r *models.BalanceSheet, v string) { r.TotalDebt = v }},
	{"Net Debt", func(r *models.BalanceSheet, v string) { r.NetDebt = v }},
	{"Share Issued", func(r *models.BalanceSheet, v string) { r.ShareIssued = v }},
	{"Ordinary Shares Number", func(r *models.BalanceSheet, v string) { r.OrdinarySharesNum = v }},
	{"Preferred Shares Number", func(r *models.BalanceSheet, v string) { r.PreferredSharesNum = v }},
	{"Treasury Shares Number", func(r *models.BalanceSheet, v string) { r.TreasurySharesNum = v }},
}

var cashFlowFields = []fieldSpec[models.CashFlowStatement]{
	{"Operating Cash Flow", func(r *models.CashFlowStatement, v string) { r.OperatingCashFlow = v }},
	{"Investing Cash Flow", func(r *models.CashFlowStatement, v string) { r.InvestingCashFlow = v }},
	{"Financing Cash Flow", func(r *models.CashFlowStatement, v string) { r.FinancingCashFlow = v }},
	{"End Cash Position", func(r *models.CashFlowStatement, v string) { r.EndCashPosition = v }},
	{"Capital Expenditure", func(r *models.CashFlowStatement, v string) { r.CapitalExpenditure = v }},
	{"Issuance of Capital Stock", func(r *models.CashFlowStatement, v string) { r.IssuanceOfCapital = v }},
	{"Issuance of Debt", func(r *models.CashFlowStatement, v string) { r.IssuanceOfDebt = v }},
	{"Repayment of Debt", func(r *models.CashFlowStatement, v string) { r.RepaymentOfDebt = v }},
	{"Repurchase of Capital Stock", func(r *models.CashFlowStatement, v string) { r.RepurchaseOfStock = v }},
	{"Changes in Cash", func(r *models.CashFlowStatement, v string) { r.ChangesInCash = v }},
	{"Beginning Cash Position", func(r *models.CashFlowStatement, v string) { r.BeginCashPosition = v }},
	{"Income Tax Paid Supplemental Data", func(r *models.CashFlowStatement, v string) { r.IncomeTaxPaid = v }},
	{"Interest Paid Supplemental Data", func(r *models.CashFlowStatement, v string) { r.InterestPaid = v }},
	{"Free Cash Flow", func(r *models.CashFlowStatement, v string) { r.FreeCashFlow = v }},
}
