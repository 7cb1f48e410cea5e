package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"optinet-backend/models"
)

var receiptTemplate = template.Must(template.New("receipt").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Payment Receipt {{.ReceiptNumber}}</h2>
  <p>Dear {{.CustomerName}},</p>
  <p>Thank you for your payment. Here are your receipt details:</p>
  <table cellpadding="6" border="1" style="border-collapse: collapse;">
    <tr><td>Receipt Number</td><td>{{.ReceiptNumber}}</td></tr>
    <tr><td>Invoice Number</td><td>{{.InvoiceNumber}}</td></tr>
    <tr><td>Plan</td><td>{{.PlanName}} ({{.PlanSpeed}})</td></tr>
    <tr><td>Amount Paid</td><td>KSh {{.AmountPaid}}</td></tr>
    <tr><td>Payment Method</td><td>{{.PaymentMethod}}</td></tr>
  </table>
  <p>We appreciate your business.</p>
</body>
</html>`))

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Invoice {{.InvoiceNumber}}</h2>
  <p>Dear {{.CustomerName}},</p>
  <p>Your subscription invoice is ready:</p>
  <table cellpadding="6" border="1" style="border-collapse: collapse;">
    <tr><td>Invoice Number</td><td>{{.InvoiceNumber}}</td></tr>
    <tr><td>Plan</td><td>{{.PlanName}} ({{.PlanSpeed}})</td></tr>
    <tr><td>Total</td><td>KSh {{.TotalAmount}}</td></tr>
    <tr><td>Tax</td><td>KSh {{.TaxAmount}}</td></tr>
    <tr><td>Discount</td><td>KSh {{.Discount}}</td></tr>
    <tr><td>Amount Due</td><td>KSh {{.FinalAmount}}</td></tr>
    <tr><td>Due Date</td><td>{{.DueDate.Format "2 Jan 2006"}}</td></tr>
  </table>
  <p>Please settle the amount due before the due date to keep your connection active.</p>
</body>
</html>`))

var resetTemplate = template.Must(template.New("reset").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Password Reset</h2>
  <p>Hello {{.Name}},</p>
  <p>A password reset was requested for your account. Use the link below within one hour:</p>
  <p><a href="{{.ResetURL}}">{{.ResetURL}}</a></p>
  <p>If you did not request this, you can ignore this email.</p>
</body>
</html>`))

// RenderReceiptHTML renders the receipt email / PDF body.
func RenderReceiptHTML(rec *models.Receipt) (string, error) {
	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, rec); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderInvoiceHTML renders the invoice email / PDF body.
func RenderInvoiceHTML(inv *models.Invoice) (string, error) {
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, inv); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderResetEmail renders the password reset email body.
func RenderResetEmail(name, resetURL string) (string, error) {
	var buf bytes.Buffer
	err := resetTemplate.Execute(&buf, struct {
		Name     string
		ResetURL string
	}{Name: name, ResetURL: resetURL})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// InvoiceMessage renders the short WhatsApp text for an invoice.
func InvoiceMessage(inv *models.Invoice) string {
	return fmt.Sprintf(
		"Hi %s, your invoice %s for plan %s (KSh %d) is due on %s. Thank you!",
		inv.CustomerName, inv.InvoiceNumber, inv.PlanName, inv.FinalAmount,
		inv.DueDate.Format("2 Jan 2006"),
	)
}

// ReceiptMessage renders the short WhatsApp text for a receipt.
func ReceiptMessage(rec *models.Receipt) string {
	return fmt.Sprintf(
		"Hi %s, your payment of KSh %d for plan %s has been received. Receipt: %s. Thank you!",
		rec.CustomerName, rec.AmountPaid, rec.PlanName, rec.ReceiptNumber,
	)
}
