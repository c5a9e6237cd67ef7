// Package erc holds the cell layout of the Employee Retention Credit worksheet.
package erc

import (
	"fmt"

	"ercsheet/pkg/schema"
)

// SheetName is the worksheet tab every ERC cell reference points into.
const SheetName = "ERC Worksheet"

// Section names, in declaration order.
const (
	SectionCompanyInfo   = "companyInfo"
	SectionEligibility   = "eligibility"
	SectionGrossReceipts = "grossReceipts"
	SectionEmployeeInfo  = "employeeInfo"
	SectionSummary       = "summary"
	SectionForm941       = "form941"
)

// Rows of the employee roster.
const RosterSize = 10

var quarters = []string{"q1", "q2", "q3", "q4"}

var template = schema.MustNew(SheetName,
	companyInfo(),
	eligibility(),
	grossReceipts(),
	employeeInfo(),
	summary(),
	form941(),
)

// Template returns the ERC worksheet schema.
func Template() *schema.Schema {
	return template
}

func companyInfo() schema.Section {
	return schema.Section{Name: SectionCompanyInfo, Mappings: []schema.CellMapping{
		schema.Label("A1", "worksheetTitle", "Employee Retention Credit Worksheet"),
		schema.Label("A3", "companyNameLabel", "Company Name"),
		schema.Data("B3", "companyName", schema.Text, "legal business name"),
		schema.Label("A4", "einLabel", "EIN"),
		schema.Data("B4", "ein", schema.Text, "employer identification number, NN-NNNNNNN"),
		schema.Label("A5", "companyAddressLabel", "Address"),
		schema.Data("B5", "companyAddress", schema.Text, ""),
		schema.Label("A6", "contactNameLabel", "Contact Name"),
		schema.Data("B6", "contactName", schema.Text, ""),
		schema.Label("A7", "contactEmailLabel", "Contact Email"),
		schema.Data("B7", "contactEmail", schema.Text, ""),
		schema.Label("A8", "contactPhoneLabel", "Contact Phone"),
		schema.Data("B8", "contactPhone", schema.Text, ""),
		schema.Label("A9", "industryLabel", "Industry"),
		schema.Data("B9", "industry", schema.Text, ""),
		schema.Label("A10", "fiscalYearEndLabel", "Fiscal Year End"),
		schema.Data("B10", "fiscalYearEnd", schema.Text, "month and day, e.g. 12/31"),
	}}
}

func eligibility() schema.Section {
	return schema.Section{Name: SectionEligibility, Mappings: []schema.CellMapping{
		schema.Label("A12", "eligibilityTitle", "Eligibility"),
		schema.Label("A13", "fullTimeEmployees2019Label", "Full-Time Employees in 2019"),
		schema.Data("B13", "fullTimeEmployees2019", schema.Number, "average full-time employee count, drives large employer status"),
		schema.Label("A14", "recoveryStartupBusinessLabel", "Recovery Startup Business"),
		schema.Data("B14", "recoveryStartupBusiness", schema.Boolean, "began business after 2020-02-15"),
		schema.Label("A15", "governmentOrderSuspensionLabel", "Suspended by Government Order"),
		schema.Data("B15", "governmentOrderSuspension", schema.Boolean, "full or partial suspension"),
		schema.Label("A16", "supplyChainDisruptionLabel", "Supply Chain Disruption"),
		schema.Data("B16", "supplyChainDisruption", schema.Boolean, ""),
		schema.Label("A17", "pppLoanReceivedLabel", "PPP Loan Received"),
		schema.Data("B17", "pppLoanReceived", schema.Boolean, ""),
		schema.Label("A18", "pppFirstDrawAmountLabel", "PPP First Draw Amount"),
		schema.Data("B18", "pppFirstDrawAmount", schema.Number, "wages used for forgiveness are excluded from qualified wages"),
		schema.Label("A19", "pppSecondDrawAmountLabel", "PPP Second Draw Amount"),
		schema.Data("B19", "pppSecondDrawAmount", schema.Number, ""),
		schema.Label("A20", "aggregatedGroupLabel", "Member of Aggregated Group"),
		schema.Data("B20", "aggregatedGroup", schema.Boolean, ""),
		schema.Label("A21", "largeEmployerLabel", "Large Employer"),
		schema.Data("B21", "largeEmployer", schema.Boolean, "over 100 (2020) or 500 (2021) full-time employees"),
	}}
}

func grossReceipts() schema.Section {
	m := []schema.CellMapping{
		schema.Label("A29", "grossReceiptsTitle", "Gross Receipts"),
		schema.HeaderCell("A30", "grossReceiptsQuarterHeader", "Quarter"),
		schema.HeaderCell("B30", "grossReceipts2019Header", "2019"),
		schema.HeaderCell("C30", "grossReceipts2020Header", "2020"),
		schema.HeaderCell("D30", "grossReceipts2021Header", "2021"),
		schema.HeaderCell("E30", "decline2020Header", "2020 vs 2019"),
		schema.HeaderCell("F30", "decline2021Header", "2021 vs 2019"),
		schema.HeaderCell("G30", "qualifies2020Header", "Qualifies 2020"),
		schema.HeaderCell("H30", "qualifies2021Header", "Qualifies 2021"),
	}
	for i, q := range quarters {
		row := 31 + i
		m = append(m,
			schema.HeaderCell(cell("A", row), "grossReceipts_"+q+"_header", "Q"+q[1:]),
			schema.Data(cell("B", row), "gross_2019_"+q, schema.Number, ""),
			schema.Data(cell("C", row), "gross_2020_"+q, schema.Number, ""),
			schema.Data(cell("D", row), "gross_2021_"+q, schema.Number, ""),
			schema.Data(cell("E", row), "decline_2020_"+q, schema.Percentage, "decline against the same 2019 quarter"),
			schema.Data(cell("F", row), "decline_2021_"+q, schema.Percentage, "decline against the same 2019 quarter"),
			schema.Data(cell("G", row), "qualifies_2020_"+q, schema.Boolean, "decline of more than 50%"),
			schema.Data(cell("H", row), "qualifies_2021_"+q, schema.Boolean, "decline of more than 20%"),
		)
	}
	m = append(m,
		schema.HeaderCell("A35", "grossReceiptsTotalHeader", "Total"),
		schema.Data("B35", "gross_2019_total", schema.Number, ""),
		schema.Data("C35", "gross_2020_total", schema.Number, ""),
		schema.Data("D35", "gross_2021_total", schema.Number, ""),
	)
	return schema.Section{Name: SectionGrossReceipts, Mappings: m}
}

func employeeInfo() schema.Section {
	m := []schema.CellMapping{
		schema.Label("A38", "employeeInfoTitle", "Employee Information"),
		schema.HeaderCell("A39", "employeeNumberHeader", "#"),
		schema.HeaderCell("B39", "employeeNameHeader", "Employee Name"),
		schema.HeaderCell("C39", "employeeRelatedHeader", "Related to Owner"),
		schema.HeaderCell("D39", "employeeFullTimeHeader", "Full Time"),
		schema.HeaderCell("E39", "employeeWages2020Header", "2020 Qualified Wages"),
		schema.HeaderCell("F39", "employeeWages2021Header", "2021 Qualified Wages"),
	}
	for n := 1; n <= RosterSize; n++ {
		row := 39 + n
		prefix := fmt.Sprintf("employee_%d_", n)
		m = append(m,
			schema.HeaderCell(cell("A", row), prefix+"number", fmt.Sprint(n)),
			schema.Data(cell("B", row), prefix+"name", schema.Text, ""),
			schema.Data(cell("C", row), prefix+"related", schema.Boolean, "wages of related individuals do not qualify"),
			schema.Data(cell("D", row), prefix+"fullTime", schema.Boolean, ""),
			schema.Data(cell("E", row), prefix+"wages_2020", schema.Number, "capped at 10,000 for the year"),
			schema.Data(cell("F", row), prefix+"wages_2021", schema.Number, "capped at 10,000 per quarter"),
		)
	}
	return schema.Section{Name: SectionEmployeeInfo, Mappings: m}
}

func summary() schema.Section {
	return schema.Section{Name: SectionSummary, Mappings: []schema.CellMapping{
		schema.Label("J55", "summaryTitle", "ERC Summary"),
		schema.Label("J56", "ercTotal2020Label", "Total ERC 2020"),
		schema.Data("K56", "ercTotal2020", schema.Number, ""),
		schema.Label("J57", "ercAmountClaimedCaption", "Credit Claimed"),
		schema.Data("K57", "ercAmountClaimedLabel", schema.Text, "name of the credit as shown on the claim"),
		schema.Label("J58", "ercTotal2021Label", "Total ERC 2021"),
		schema.Data("K58", "ercTotal2021", schema.Number, ""),
		schema.Label("J59", "ercTotalClaimedLabel", "Total ERC Claimed"),
		schema.Data("K59", "ercTotalClaimed", schema.Number, ""),
		schema.Label("J60", "claimFiledLabel", "Claim Filed"),
		schema.Data("K60", "claimFiled", schema.Boolean, ""),
		schema.Label("J61", "effectiveCreditRateLabel", "Effective Credit Rate"),
		schema.Data("K61", "effectiveCreditRate", schema.Percentage, "total credit over total wages"),
	}}
}

func form941() schema.Section {
	m := []schema.CellMapping{
		schema.Label("A61", "form941Title", "Form 941 Data"),
		schema.HeaderCell("A62", "form941QuarterHeader", "Quarter"),
		schema.HeaderCell("B62", "form941EmployeesHeader", "Employees"),
		schema.HeaderCell("C62", "form941TotalWagesHeader", "Total Wages"),
		schema.HeaderCell("D62", "form941QualifiedWagesHeader", "Qualified Wages"),
		schema.HeaderCell("E62", "form941HealthPlanHeader", "Health Plan Expenses"),
		schema.HeaderCell("F62", "form941CreditRateHeader", "Credit Rate"),
		schema.HeaderCell("G62", "form941CreditAmountHeader", "Credit Amount"),
		schema.HeaderCell("H62", "form941AmendedHeader", "941-X Filed"),
	}
	row := 63
	for _, year := range []string{"2020", "2021"} {
		for _, q := range quarters {
			prefix := "form941_" + year + "_" + q + "_"
			m = append(m,
				schema.HeaderCell(cell("A", row), prefix+"header", year+" Q"+q[1:]),
				schema.Data(cell("B", row), prefix+"employees", schema.Number, "employees receiving wages, line 1"),
				schema.Data(cell("C", row), prefix+"totalWages", schema.Number, "line 2"),
				schema.Data(cell("D", row), prefix+"qualifiedWages", schema.Number, ""),
				schema.Data(cell("E", row), prefix+"healthPlanExpenses", schema.Number, "allocable qualified health plan expenses"),
				schema.Data(cell("F", row), prefix+"creditRate", schema.Percentage, "50% in 2020, 70% in 2021"),
				schema.Data(cell("G", row), prefix+"creditAmount", schema.Number, ""),
				schema.Data(cell("H", row), prefix+"amendedFiled", schema.Boolean, ""),
			)
			row++
		}
	}
	return schema.Section{Name: SectionForm941, Mappings: m}
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
