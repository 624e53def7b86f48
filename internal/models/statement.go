package models

import "time"

// StatementKind names one of the three financial statement tables.
type StatementKind string

const (
	KindIncome   StatementKind = "income"
	KindBalance  StatementKind = "balance"
	KindCashFlow StatementKind = "cashflow"
)

// Valid reports whether the kind is one of the known statements.
func (k StatementKind) Valid() bool {
	switch k {
	case KindIncome, KindBalance, KindCashFlow:
		return true
	}
	return false
}

// Kinds lists every statement kind in refresh order.
func Kinds() []StatementKind {
	return []StatementKind{KindIncome, KindBalance, KindCashFlow}
}

// IncomeStatement holds the latest income statement snapshot for a ticker.
// DateIndex is the joined, most-recent-first sequence of fiscal period
// labels; every non-empty line item below carries exactly one token per
// period in the same order. The whole row is replaced on refresh.
type IncomeStatement struct {
	Ticker     string    `gorm:"primaryKey" json:"ticker"`
	LastUpdate time.Time `gorm:"not null" json:"last_update"`
	DateIndex  string    `gorm:"not null" json:"date_index"`
	Unit       string    `json:"unit"`

	TotalRevenue          string `json:"tot_revenue"`
	CostOfRevenue         string `json:"cost_revenue"`
	GrossProfit           string `json:"gross_profit"`
	OperatingExpense      string `json:"op_expense"`
	OperatingIncome       string `json:"op_income"`
	NetNonOpInterest      string `json:"nnoi_income_exp"`
	OtherIncomeExpense    string `json:"oth_income_exp"`
	PretaxIncome          string `json:"pretax_income"`
	TaxProvision          string `json:"tax_provision"`
	EquityInterestNet     string `json:"efeino_tax"`
	NetIncomeCommon       string `json:"nics"`
	DilutedNIAvailable    string `json:"diluted_ni"`
	BasicEPS              string `json:"basic_eps"`
	DilutedEPS            string `json:"diluted_eps"`
	BasicAvgShares        string `json:"b_avg_shares"`
	DilutedAvgShares      string `json:"d_avg_shares"`
	TotalOpIncomeReported string `json:"tot_op_income"`
	TotalExpenses         string `json:"tot_expense"`
	NetIncomeContDiscont  string `json:"net_income"`
	NormalizedIncome      string `json:"norm_income"`
	InterestIncome        string `json:"int_income"`
	InterestExpense       string `json:"int_expense"`
	NetInterestIncome     string `json:"net_int_inc"`
	EBIT                  string `json:"ebit"`
	EBITDA                string `json:"ebitda"`
	ReconciledCostOfRev   string `json:"rec_cost_of_rev"`
	ReconciledDepr        string `json:"rec_depr"`
	NetIncomeContinuing   string `json:"net_cont_inc"`
	TotalUnusualItems     string `json:"tot_unusual"`
	NormalizedEBITDA      string `json:"norm_ebitda"`
	TaxRateForCalcs       string `json:"calc_tax_rate"`
	TaxEffectUnusual      string `json:"teu_items"`
}

// LineItems returns the encoded line-item fields keyed by column name.
// The map is rebuilt on each call; mutating it does not touch the row.
func (s *IncomeStatement) LineItems() map[string]string {
	return map[string]string{
		"tot_revenue":     s.TotalRevenue,
		"cost_revenue":    s.CostOfRevenue,
		"gross_profit":    s.GrossProfit,
		"op_expense":      s.OperatingExpense,
		"op_income":       s.OperatingIncome,
		"nnoi_income_exp": s.NetNonOpInterest,
		"oth_income_exp":  s.OtherIncomeExpense,
		"pretax_income":   s.PretaxIncome,
		"tax_provision":   s.TaxProvision,
		"efeino_tax":      s.EquityInterestNet,
		"nics":            s.NetIncomeCommon,
		"diluted_ni":      s.DilutedNIAvailable,
		"basic_eps":       s.BasicEPS,
		"diluted_eps":     s.DilutedEPS,
		"b_avg_shares":    s.BasicAvgShares,
		"d_avg_shares":    s.DilutedAvgShares,
		"tot_op_income":   s.TotalOpIncomeReported,
		"tot_expense":     s.TotalExpenses,
		"net_income":      s.NetIncomeContDiscont,
		"norm_income":     s.NormalizedIncome,
		"int_income":      s.InterestIncome,
		"int_expense":     s.InterestExpense,
		"net_int_inc":     s.NetInterestIncome,
		"ebit":            s.EBIT,
		"ebitda":          s.EBITDA,
		"rec_cost_of_rev": s.ReconciledCostOfRev,
		"rec_depr":        s.ReconciledDepr,
		"net_cont_inc":    s.NetIncomeContinuing,
		"tot_unusual":     s.TotalUnusualItems,
		"norm_ebitda":     s.NormalizedEBITDA,
		"calc_tax_rate":   s.TaxRateForCalcs,
		"teu_items":       s.TaxEffectUnusual,
	}
}

// BalanceSheet holds the latest balance sheet snapshot for a ticker.
// Same shape rules as IncomeStatement.
type BalanceSheet struct {
	Ticker     string    `gorm:"primaryKey" json:"ticker"`
	LastUpdate time.Time `gorm:"not null" json:"last_update"`
	DateIndex  string    `gorm:"not null" json:"date_index"`
	Unit       string    `json:"unit"`

	TotalAssets        string `json:"tot_assets"`
	TotalLiabilities   string `json:"tot_liab"`
	TotalEquity        string `json:"tot_equity"`
	TotalCapitalizn    string `json:"tot_cap"`
	CommonStockEquity  string `json:"cs_equity"`
	CapitalLeaseOblig  string `json:"cap_lease_obl"`
	NetTangibleAssets  string `json:"net_tang_assets"`
	WorkingCapital     string `json:"working_cap"`
	InvestedCapital    string `json:"invested_cap"`
	TangibleBookValue  string `json:"tang_book_val"`
	TotalDebt          string `json:"tot_debt"`
	NetDebt            string `json:"net_debt"`
	ShareIssued        string `json:"share_issued"`
	OrdinarySharesNum  string `json:"ordinary_shares"`
	PreferredSharesNum string `json:"preferred_shares"`
	TreasurySharesNum  string `json:"treasury_shares"`
}

// LineItems returns the encoded line-item fields keyed by column name.
func (s *BalanceSheet) LineItems() map[string]string {
	return map[string]string{
		"tot_assets":       s.TotalAssets,
		"tot_liab":         s.TotalLiabilities,
		"tot_equity":       s.TotalEquity,
		"tot_cap":          s.TotalCapitalizn,
		"cs_equity":        s.CommonStockEquity,
		"cap_lease_obl":    s.CapitalLeaseOblig,
		"net_tang_assets":  s.NetTangibleAssets,
		"working_cap":      s.WorkingCapital,
		"invested_cap":     s.InvestedCapital,
		"tang_book_val":    s.TangibleBookValue,
		"tot_debt":         s.TotalDebt,
		"net_debt":         s.NetDebt,
		"share_issued":     s.ShareIssued,
		"ordinary_shares":  s.OrdinarySharesNum,
		"preferred_shares": s.PreferredSharesNum,
		"treasury_shares":  s.TreasurySharesNum,
	}
}

// CashFlowStatement holds the latest cash flow snapshot for a ticker.
// Same shape rules as IncomeStatement.
type CashFlowStatement struct {
	Ticker     string    `gorm:"primaryKey" json:"ticker"`
	LastUpdate time.Time `gorm:"not null" json:"last_update"`
	DateIndex  string    `gorm:"not null" json:"date_index"`
	Unit       string    `json:"unit"`

	OperatingCashFlow  string `json:"op_cash_flow"`
	InvestingCashFlow  string `json:"inv_cash_flow"`
	FinancingCashFlow  string `json:"fin_cash_flow"`
	EndCashPosition    string `json:"end_cash_pos"`
	CapitalExpenditure string `json:"cap_exp"`
	IssuanceOfCapital  string `json:"iss_cap"`
	IssuanceOfDebt     string `json:"iss_debt"`
	RepaymentOfDebt    string `json:"rep_debt"`
	RepurchaseOfStock  string `json:"rep_stock"`
	ChangesInCash      string `json:"changes_in_cash"`
	BeginCashPosition  string `json:"begin_cash_pos"`
	IncomeTaxPaid      string `json:"income_tax_paid"`
	InterestPaid       string `json:"interest_paid"`
	FreeCashFlow       string `json:"free_cash_flow"`
}

// LineItems returns the encoded line-item fields keyed by column name.
func (s *CashFlowStatement) LineItems() map[string]string {
	return map[string]string{
		"op_cash_flow":    s.OperatingCashFlow,
		"inv_cash_flow":   s.InvestingCashFlow,
		"fin_cash_flow":   s.FinancingCashFlow,
		"end_cash_pos":    s.EndCashPosition,
		"cap_exp":         s.CapitalExpenditure,
		"iss_cap":         s.IssuanceOfCapital,
		"iss_debt":        s.IssuanceOfDebt,
		"rep_debt":        s.RepaymentOfDebt,
		"rep_stock":       s.RepurchaseOfStock,
		"changes_in_cash": s.ChangesInCash,
		"begin_cash_pos":  s.BeginCashPosition,
		"income_tax_paid": s.IncomeTaxPaid,
		"interest_paid":   s.InterestPaid,
		"free_cash_flow":  s.FreeCashFlow,
	}
}
