package views

// Column is one table column: the JSON key of the projected record and its heading.
type Column struct {
	Key    string `json:"key"`
	Header string `json:"header"`
}

var (
	PendingIndentColumns = []Column{
		{"date", "Date"},
		{"indentNo", "Indent Number"},
		{"firmNameMatch", "Firm Name"},
		{"product", "Product"},
		{"quantity", "Pending PO Qty"},
		{"rate", "Rate"},
		{"uom", "UOM"},
		{"vendorName", "Vendor Name"},
		{"paymentTerm", "Payment Term"},
		{"specifications", "Specifications"},
	}

	POHistoryColumns = []Column{
		{"poNumber", "PO Number"},
		{"poCopy", "PO Copy"},
		{"vendorName", "Vendor Name"},
		{"totalAmount", "Amount"},
		{"status", "Status"},
	}

	MakePaymentColumns = []Column{
		{"indentNo", "Indent No."},
		{"firmNameMatch", "Firm Name"},
		{"billNo", "Bill No."},
		{"vendorName", "Vendor Name"},
		{"productName", "Product Name"},
		{"qty", "Qty"},
		{"billAmount", "Bill Amount"},
		{"advanceAmount", "Advance Amount"},
		{"paymentType", "Payment Type"},
		{"planned7Date", "Planned Date"},
		{"makePaymentLink", "Payment Link"},
	}

	PaymentStatusColumns = []Column{
		{"timestamp", "Date"},
		{"apPaymentNumber", "AP Payment Number"},
		{"uniqueNumber", "Indent Number"},
		{"fmsName", "Fms Name"},
		{"payTo", "Pay To"},
		{"amountToBePaid", "Amount To Be Paid"},
		{"status", "Status"},
		{"remarks", "Remarks"},
		{"anyAttachments", "Bill Attachment"},
	}

	BillNotReceivedColumns = []Column{
		{"liftNumber", "Lift Number"},
		{"indentNo", "Indent No."},
		{"poNumber", "PO Number"},
		{"vendorName", "Vendor Name"},
		{"firmNameMatch", "Firm Name"},
		{"productName", "Product Name"},
		{"billStatus", "Bill Status"},
		{"billNo", "Bill No."},
		{"qty", "Qty"},
		{"leadTimeToLiftMaterial", "Lead Time To Lift Material"},
		{"typeOfBill", "Type Of Bill"},
		{"billAmount", "Bill Amount"},
		{"discountAmount", "Discount Amount"},
		{"paymentType", "Payment Type"},
		{"advanceAmountIfAny", "Advance Amount If Any"},
		{"photoOfBill", "Photo Of Bill"},
		{"transportationInclude", "Transportation Include"},
		{"transporterName", "Transporter Name"},
		{"amount", "Amount"},
	}

	PCReportColumns = []Column{
		{"stage", "Stage"},
		{"firmName", "Firm Name"},
		{"totalPending", "Total Pending"},
		{"totalComplete", "Total Complete"},
	}
)

// StageColumns is the column set for generic stage views: the business key,
// firm and timestamp, followed by whatever the step adds.
func StageColumns(key, keyHeader string, extra ...Column) []Column {
	cols := []Column{
		{key, keyHeader},
		{"firmNameMatch", "Firm Name"},
		{"timestamp", "Timestamp"},
	}
	return append(cols, extra...)
}
