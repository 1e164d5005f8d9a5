// SPDX-License-Identifier: Apache-2.0

package fecfile

import (
	"fmt"
	"strings"
	"time"

	"github.com/fecmcp/fec-mcp/internal/filing"
)

// column maps one positional field of a record to a named, typed value.
type column struct {
	name string
	kind filing.Kind
}

func text(name string) column   { return column{name: name, kind: filing.KindText} }
func amount(name string) column { return column{name: name, kind: filing.KindNumber} }
func date(name string) column   { return column{name: name, kind: filing.KindDate} }

func (c column) decode(raw string) (filing.Value, error) {
	switch c.kind {
	case filing.KindNumber:
		if raw == "" {
			return filing.Null(), nil
		}
		return filing.ParseNumber(raw)
	case filing.KindDate:
		if raw == "" {
			return filing.Null(), nil
		}
		t, err := time.Parse("20060102", raw)
		if err != nil {
			return filing.Value{}, fmt.Errorf("invalid date %q: expected YYYYMMDD", raw)
		}
		return filing.Date(t), nil
	default:
		return filing.Text(raw), nil
	}
}

// layout is the enumerated field set of one form or schedule. A partial
// layout names only the leading columns; the rest are never rejected.
type layout struct {
	name    string
	columns []column
	partial bool
}

// amounts names the columns of one column group of a summary page, e.g.
// amounts("col_a_", "total_receipts") yields col_a_total_receipts.
func amounts(prefix string, lines ...string) []column {
	out := make([]column, len(lines))
	for i, l := range lines {
		out[i] = amount(prefix + l)
	}
	return out
}

func concat(groups ...[]column) []column {
	var out []column
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// f3xDetailLines are the F3X detailed summary lines 11(a)(i) through 38,
// reported once per period (column A) and once calendar year to date
// (column B).
var f3xDetailLines = []string{
	"individuals_itemized", "individuals_unitemized", "individual_contribution_total",
	"political_party_committees", "other_political_committees_pacs", "total_contributions",
	"transfers_from_affiliated_party", "all_loans_received", "loan_repayments_received",
	"offsets_to_operating_expenditures", "federal_candidate_contribution_refunds",
	"other_federal_receipts", "transfers_from_nonfederal_h3", "levin_funds_h5",
	"total_nonfederal_transfers", "total_receipts_line_19", "total_federal_receipts",
	"shared_operating_federal_share", "shared_operating_nonfederal_share",
	"other_federal_operating_expenditures", "total_operating_expenditures",
	"transfers_to_affiliated", "contributions_to_federal_candidates",
	"independent_expenditures", "coordinated_expenditures_by_party",
	"loan_repayments_made", "loans_made", "refunds_to_individuals",
	"refunds_to_party_committees", "refunds_to_other_committees", "total_refunds",
	"other_disbursements", "fea_shared_federal_share", "fea_shared_levin_share",
	"fea_nonallocable", "fea_total", "total_disbursements_line_31",
	"total_federal_disbursements", "total_contributions_line_33",
	"total_contribution_refunds", "net_contributions",
	"total_federal_operating_expenditures", "total_offsets_to_operating_expenditures",
	"net_operating_expenditures",
}

// f3DetailLines are the F3 detailed summary lines 11(a)(i) through 22.
var f3DetailLines = []string{
	"individuals_itemized", "individuals_unitemized", "individual_contribution_total",
	"political_party_committees", "other_political_committees", "candidate_contributions",
	"total_contributions", "transfers_from_authorized", "candidate_loans", "other_loans",
	"total_loans", "offsets_to_operating_expenditures", "other_receipts",
	"total_receipts", "operating_expenditures", "transfers_to_authorized",
	"candidate_loan_repayments", "other_loan_repayments", "total_loan_repayments",
	"refunds_to_individuals", "refunds_to_party_committees", "refunds_to_other_committees",
	"total_refunds", "other_disbursements", "total_disbursements",
}

// f3pDetailLines are the F3P detailed summary lines 16 through 30.
var f3pDetailLines = []string{
	"federal_funds", "individuals_itemized", "individuals_unitemized",
	"individual_contribution_total", "political_party_committees",
	"other_political_committees", "candidate_contributions", "total_contributions",
	"transfers_from_affiliated", "candidate_loans", "other_loans", "total_loans",
	"operating_offsets", "fundraising_offsets", "legal_accounting_offsets",
	"total_offsets", "other_receipts", "total_receipts_line_22",
	"operating_expenditures", "transfers_to_authorized", "fundraising_disbursements",
	"exempt_legal_accounting", "candidate_loan_repayments", "other_loan_repayments",
	"total_loan_repayments", "refunds_to_individuals", "refunds_to_party_committees",
	"refunds_to_other_committees", "total_refunds", "other_disbursements",
	"total_disbursements_line_30",
}

// formLayouts covers the summary forms. Keys are form types without the
// new/amended/termination suffix.
var formLayouts = map[string]layout{
	"F3X": {name: "F3X", columns: concat([]column{
		text("form_type"), text("filer_committee_id_number"), text("committee_name"),
		text("change_of_address"), text("street_1"), text("street_2"), text("city"),
		text("state"), text("zip_code"), text("report_code"), text("election_code"),
		date("date_of_election"), text("state_of_election"), date("coverage_from_date"),
		date("coverage_through_date"), text("qualified_committee"),
		text("treasurer_last_name"), text("treasurer_first_name"), text("treasurer_middle_name"),
		text("treasurer_prefix"), text("treasurer_suffix"), date("date_signed"),
	},
		amounts("col_a_", "cash_on_hand_beginning_period", "total_receipts", "subtotal",
			"total_disbursements", "cash_on_hand_close_of_period", "debts_to", "debts_by"),
		amounts("col_a_", f3xDetailLines...),
		[]column{amount("col_b_cash_on_hand_jan_1"), text("col_b_year")},
		amounts("col_b_", "total_receipts", "subtotal", "total_disbursements",
			"cash_on_hand_close_of_period"),
		amounts("col_b_", f3xDetailLines...),
	)},
	"F3": {name: "F3", columns: concat([]column{
		text("form_type"), text("filer_committee_id_number"), text("committee_name"),
		text("change_of_address"), text("street_1"), text("street_2"), text("city"),
		text("state"), text("zip_code"), text("election_state"), text("election_district"),
		text("report_code"), text("election_code"), date("date_of_election"),
		text("state_of_election"), date("coverage_from_date"), date("coverage_through_date"),
		text("treasurer_last_name"), text("treasurer_first_name"), text("treasurer_middle_name"),
		text("treasurer_prefix"), text("treasurer_suffix"), date("date_signed"),
		text("candidate_id_number"), text("candidate_last_name"), text("candidate_first_name"),
		text("candidate_middle_name"), text("candidate_prefix"), text("candidate_suffix"),
		text("report_type"),
	},
		amounts("col_a_", "total_contributions_no_loans", "total_contributions_refunds",
			"net_contributions", "total_operating_expenditures",
			"total_offset_to_operating_expenditures", "net_operating_expenditures",
			"cash_on_hand_close_of_period", "debts_to", "debts_by"),
		amounts("col_a_", f3DetailLines...),
		amounts("col_a_", "cash_on_hand_beginning_period", "total_receipts_period",
			"subtotal_period", "total_disbursements_period", "cash_on_hand_close"),
		amounts("col_b_", "total_contributions_no_loans", "total_contributions_refunds",
			"net_contributions", "total_operating_expenditures",
			"total_offset_to_operating_expenditures", "net_operating_expenditures"),
		amounts("col_b_", f3DetailLines...),
	)},
	"F3P": {name: "F3P", columns: concat([]column{
		text("form_type"), text("filer_committee_id_number"), text("committee_name"),
		text("change_of_address"), text("street_1"), text("street_2"), text("city"),
		text("state"), text("zip_code"), text("activity_primary"), text("activity_general"),
		text("report_code"), text("election_code"), date("date_of_election"),
		text("state_of_election"), date("coverage_from_date"), date("coverage_through_date"),
		text("treasurer_last_name"), text("treasurer_first_name"), text("treasurer_middle_name"),
		text("treasurer_prefix"), text("treasurer_suffix"), date("date_signed"),
	},
		amounts("col_a_", "cash_on_hand_beginning_period", "total_receipts", "subtotal",
			"total_disbursements", "cash_on_hand_close_of_period", "debts_to", "debts_by",
			"expenditures_subject_to_limits", "net_contributions", "net_operating_expenditures"),
		amounts("col_a_", f3pDetailLines...),
		[]column{amount("col_a_items_on_hand_to_be_liquidated")},
		amounts("col_b_", f3pDetailLines...),
	)},
	"F5": {name: "F5", columns: []column{
		text("form_type"), text("filer_committee_id_number"), text("entity_type"),
		text("organization_name"), text("individual_last_name"), text("individual_first_name"),
		text("individual_middle_name"), text("individual_prefix"), text("individual_suffix"),
		text("change_of_address"), text("street_1"), text("street_2"), text("city"),
		text("state"), text("zip_code"), text("qualified_nonprofit"),
		text("individual_employer"), text("individual_occupation"), text("report_code"),
		text("report_type"), date("original_amendment_date"), date("coverage_from_date"),
		date("coverage_through_date"), amount("total_contribution"),
		amount("total_independent_expenditure"), text("person_completing_last_name"),
		text("person_completing_first_name"), text("person_completing_middle_name"),
		text("person_completing_prefix"), text("person_completing_suffix"), date("date_signed"),
	}},
	"F24": {name: "F24", columns: []column{
		text("form_type"), text("filer_committee_id_number"), text("report_type"),
		date("original_amendment_date"), text("committee_name"), text("street_1"),
		text("street_2"), text("city"), text("state"), text("zip_code"),
		text("treasurer_last_name"), text("treasurer_first_name"), text("treasurer_middle_name"),
		text("treasurer_prefix"), text("treasurer_suffix"), date("date_signed"),
	}},
	"F99": {name: "F99", columns: []column{
		text("form_type"), text("filer_committee_id_number"), text("committee_name"),
		text("street_1"), text("street_2"), text("city"), text("state"), text("zip_code"),
		text("treasurer_last_name"), text("treasurer_first_name"), text("treasurer_middle_name"),
		text("treasurer_prefix"), text("treasurer_suffix"), date("date_signed"),
		text("text_code"),
	}},
}

// headerColumns lead every form record; forms without a layout of their own
// decode through them.
var headerColumns = []column{
	text("form_type"), text("filer_committee_id_number"), text("committee_name"),
}

var scheduleLayouts = map[filing.Schedule]layout{
	filing.ScheduleA: {name: "SA", columns: []column{
		text("form_type"), text("filer_committee_id_number"), text("transaction_id"),
		text("back_reference_tran_id_number"), text("back_reference_sched_name"),
		text("entity_type"), text("contributor_organization_name"),
		text("contributor_last_name"), text("contributor_first_name"),
		text("contributor_middle_name"), text("contributor_prefix"), text("contributor_suffix"),
		text("contributor_street_1"), text("contributor_street_2"), text("contributor_city"),
		text("contributor_state"), text("contributor_zip_code"), text("election_code"),
		text("election_other_description"), date("contribution_date"),
		amount("contribution_amount"), amount("contribution_aggregate"),
		text("contribution_purpose_descrip"), text("contributor_employer"),
		text("contributor_occupation"), text("donor_committee_fec_id"),
		text("donor_committee_name"), text("donor_candidate_fec_id"),
		text("donor_candidate_last_name"), text("donor_candidate_first_name"),
		text("donor_candidate_middle_name"), text("donor_candidate_prefix"),
		text("donor_candidate_suffix"), text("donor_candidate_office"),
		text("donor_candidate_state"), text("donor_candidate_district"),
		text("conduit_name"), text("conduit_street1"), text("conduit_street2"),
		text("conduit_city"), text("conduit_state"), text("conduit_zip_code"),
		text("memo_code"), text("memo_text_description"), text("reference_code"),
	}},
	filing.ScheduleB: {name: "SB", columns: []column{
		text("form_type"), text("filer_committee_id_number"), text("transaction_id_number"),
		text("back_reference_tran_id_number"), text("back_reference_sched_name"),
		text("entity_type"), text("payee_organization_name"), text("payee_last_name"),
		text("payee_first_name"), text("payee_middle_name"), text("payee_prefix"),
		text("payee_suffix"), text("payee_street_1"), text("payee_street_2"),
		text("payee_city"), text("payee_state"), text("payee_zip_code"),
		text("election_code"), text("election_other_description"), date("expenditure_date"),
		amount("expenditure_amount"), amount("semi_annual_refunded_bundled_amt"),
		text("expenditure_purpose_descrip"), text("category_code"),
		text("beneficiary_committee_fec_id"), text("beneficiary_committee_name"),
		text("beneficiary_candidate_fec_id"), text("beneficiary_candidate_last_name"),
		text("beneficiary_candidate_first_name"), text("beneficiary_candidate_middle_name"),
		text("beneficiary_candidate_prefix"), text("beneficiary_candidate_suffix"),
		text("beneficiary_candidate_office"), text("beneficiary_candidate_state"),
		text("beneficiary_candidate_district"), text("conduit_name"), text("conduit_street_1"),
		text("conduit_street_2"), text("conduit_city"), text("conduit_state"),
		text("conduit_zip_code"), text("memo_code"), text("memo_text_description"),
		text("reference_code"),
	}},
	filing.ScheduleC: {name: "SC", columns: []column{
		text("form_type"), text("filer_committee_id_number"), text("transaction_id_number"),
		text("receipt_line_number"), text("entity_type"), text("lender_organization_name"),
		text("lender_last_name"), text("lender_first_name"), text("lender_middle_name"),
		text("lender_prefix"), text("lender_suffix"), text("lender_street_1"),
		text("lender_street_2"), text("lender_city"), text("lender_state"),
		text("lender_zip_code"), text("election_code"), text("election_other_description"),
		amount("loan_amount_original"), amount("loan_payment_to_date"), amount("loan_balance"),
		text("loan_incurred_date_terms"), text("loan_due_date_terms"),
		text("loan_interest_rate_terms"), text("secured"), text("personal_funds"),
		text("lender_committee_id_number"), text("lender_candidate_id_number"),
		text("lender_candidate_last_name"), text("lender_candidate_first_name"),
		text("lender_candidate_middle_name"), text("lender_candidate_prefix"),
		text("lender_candidate_suffix"), text("lender_candidate_office"),
		text("lender_candidate_state"), text("lender_candidate_district"),
		text("memo_code"), text("memo_text_description"),
	}},
	filing.ScheduleD: {name: "SD", columns: []column{
		text("form_type"), text("filer_committee_id_number"), text("transaction_id_number"),
		text("entity_type"), text("creditor_organization_name"), text("creditor_last_name"),
		text("creditor_first_name"), text("creditor_middle_name"), text("creditor_prefix"),
		text("creditor_suffix"), text("creditor_street_1"), text("creditor_street_2"),
		text("creditor_city"), text("creditor_state"), text("creditor_zip_code"),
		text("purpose_of_debt_or_obligation"), amount("beginning_balance"),
		amount("incurred_amount"), amount("payment_amount"), amount("balance_at_close"),
	}},
	filing.ScheduleE: {name: "SE", columns: []column{
		text("form_type"), text("filer_committee_id_number"), text("transaction_id_number"),
		text("back_reference_tran_id_number"), text("back_reference_sched_name"),
		text("entity_type"), text("payee_organization_name"), text("payee_last_name"),
		text("payee_first_name"), text("payee_middle_name"), text("payee_prefix"),
		text("payee_suffix"), text("payee_street_1"), text("payee_street_2"),
		text("payee_city"), text("payee_state"), text("payee_zip_code"),
		text("election_code"), text("election_other_description"), date("dissemination_date"),
		amount("expenditure_amount"), date("disbursement_date"),
		amount("calendar_y_t_d_per_election_office"), text("expenditure_purpose_descrip"),
		text("category_code"), text("payee_cmtte_fec_id_number"), text("support_oppose_code"),
		text("so_candidate_id_number"), text("so_candidate_last_name"),
		text("so_candidate_first_name"), text("so_candidate_middle_name"),
		text("so_candidate_prefix"), text("so_candidate_suffix"), text("so_candidate_office"),
		text("so_candidate_district"), text("so_candidate_state"),
		text("completing_last_name"), text("completing_first_name"),
		text("completing_middle_name"), text("completing_prefix"), text("completing_suffix"),
		date("date_signed"), text("memo_code"), text("memo_text_description"),
	}},
}

// lookupForm finds the layout for a form type such as "F3XN" or "F99". Forms
// without a layout get a partial one holding the common leading columns.
func lookupForm(formType string) layout {
	ft := strings.ToUpper(strings.TrimSpace(formType))
	if l, ok := formLayouts[ft]; ok {
		return l
	}
	if n := len(ft); n > 1 && strings.ContainsRune("NAT", rune(ft[n-1])) {
		if l, ok := formLayouts[ft[:n-1]]; ok {
			return l
		}
	}
	return layout{name: ft, columns: headerColumns, partial: true}
}

// scheduleOf maps a record type such as "SA11AI" or "SC/10" to its schedule.
// Record types of other schedules (SC1, SL, H1, TEXT, ...) are not itemized.
func scheduleOf(recordType string) (filing.Schedule, bool) {
	switch {
	case strings.HasPrefix(recordType, "SA"):
		return filing.ScheduleA, true
	case strings.HasPrefix(recordType, "SB"):
		return filing.ScheduleB, true
	case recordType == "SC" || strings.HasPrefix(recordType, "SC/"):
		return filing.ScheduleC, true
	case strings.HasPrefix(recordType, "SD"):
		return filing.ScheduleD, true
	case strings.HasPrefix(recordType, "SE"):
		return filing.ScheduleE, true
	}
	return 0, false
}
