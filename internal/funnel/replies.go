package funnel

import "fmt"

// User-facing script texts. The funnel is a fixed sales script; these are the
// exact messages each stage sends.
const (
	replyWelcome = "👋 Hi! Welcome to *Zenvy Services*\nType *website* to continue."
	replyTypes   = "🌐 What type of website?\n• Business\n• E-commerce\n• Portfolio"
	replyPages   = "📄 Pages needed? (Home, About, Contact)"
	replyBudget  = "💰 Budget range?\n• 5-10\n• 10-20\n• 20+"

	replyExecutive = "📞 Our executive will contact you shortly."
	replyChoose    = "Please reply 1️⃣ or 2️⃣"
	replyPaid      = "🎉 Payment received! Thank you."
	replyMediaAck  = "📎 Got it! Our team will take a look shortly."
)

func replyQuotation(websiteType, pages string, price int) string {
	return fmt.Sprintf(
		"💻 *Website Quotation*\n\nType: %s\nPages: %s\n💰 Price: ₹%d\n\nChoose payment option:\n1️⃣ UPI\n2️⃣ Talk to executive",
		websiteType, pages, price,
	)
}

func replyUPI(upiID string) string {
	return fmt.Sprintf("📲 Pay via UPI: %s\nPayment ke baad *PAID* likhein.", upiID)
}

func adminNewLead(phone, websiteType, pages, budget string, price int) string {
	return fmt.Sprintf(
		"🆕 New Lead\nPhone: %s\nType: %s\nPages: %s\nBudget: %s\nPrice: ₹%d",
		phone, websiteType, pages, budget, price,
	)
}

func adminPaymentReceived(phone string, price int, invoiceID string) string {
	return fmt.Sprintf("✅ PAYMENT RECEIVED\nPhone: %s\nAmount: ₹%d\nInvoice: %s", phone, price, invoiceID)
}

func adminCallRequest(phone string) string {
	return fmt.Sprintf("📞 Call requested\nPhone: %s", phone)
}

func adminMediaReceived(phone string) string {
	return fmt.Sprintf("📎 Media message received\nPhone: %s", phone)
}
