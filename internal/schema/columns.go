// Package schema defines the column vocabulary for merchant onboarding
// sheets: the well-known column names the cleaning pipeline acts on, the
// scrub list, and the dropdown option sets written into cleaned workbooks.
package schema

// MobileColumn is the phone-number column that drives row filtering and
// duplicate removal.
const MobileColumn = "Mobile No"

// DateColumns are normalized to dd-mm-yyyy text.
var DateColumns = []string{"DOB", "DOI", "Account Opening Date"}

// AadhaarColumns lists the spellings seen in the field for the Aadhaar
// identifier column. Both are treated identically.
var AadhaarColumns = []string{"Aadhar No", "Aadhaar No"}

// AccountNoColumn is the bank account identifier column.
const AccountNoColumn = "Account No"

// Address columns. Line 2 is backfilled from Line 1 when blank.
const (
	AddressLine1Column = "Address Line 1"
	AddressLine2Column = "Address Line 2"
)

// NameColumns receive punctuation stripping.
var NameColumns = []string{
	"First Name",
	"Middle Name",
	"Last Name",
	"Entity Name",
	"Account Holder Name",
}

// EntityColumn, when populated, suppresses the personal name parts.
const EntityColumn = "Entity Name"

// PersonNameColumns are cleared on rows where EntityColumn is populated.
var PersonNameColumns = []string{"First Name", "Middle Name", "Last Name"}

const (
	// BranchColumn is force-overwritten on every row.
	BranchColumn = "Branch Name"
	// BranchReplacement is the value written into BranchColumn.
	BranchReplacement = "HO Branch"
)

// SourceFileColumn tags each row with its originating file in merge mode.
const SourceFileColumn = "Source_File"

// ScrubColumns are emptied (header kept) wherever they appear. Matching is
// case-insensitive and ignores spaces, so "mcc", "MCC" and "M C C" all hit.
var ScrubColumns = []string{
	"Turnover Type",
	"Acceptance Type",
	"Ownership Type",
	"MCC",
	"Email ID",
	SourceFileColumn,
	"Bank Cust ID",
	"State Code (GST)",
	"Latitude",
	"Longitude",
	"District",
}

// DropList pairs a column with the options offered in its dropdown.
type DropList struct {
	Column  string
	Options []string
}

// DropLists are written as list data-validations on the cleaned output,
// blanks allowed, covering every data row of the matching column.
var DropLists = []DropList{
	{Column: "Account Type", Options: []string{"Savings", "Current", "Loan", "Fixed Deposit"}},
	{Column: "Account Sub Type", Options: []string{"Regular", "Premium", "Zero Balance", "Overdraft"}},
}

// TemplateColumns is the canonical column order for the blank template
// download. It covers every column the pipeline knows about.
var TemplateColumns = []string{
	"Bank Cust ID",
	"First Name",
	"Middle Name",
	"Last Name",
	"Entity Name",
	"Account Holder Name",
	MobileColumn,
	"Email ID",
	"DOB",
	"DOI",
	"Aadhar No",
	AccountNoColumn,
	"Account Type",
	"Account Sub Type",
	"Account Opening Date",
	AddressLine1Column,
	AddressLine2Column,
	"District",
	"State Code (GST)",
	"Latitude",
	"Longitude",
	BranchColumn,
	"MCC",
	"Turnover Type",
	"Acceptance Type",
	"Ownership Type",
}
