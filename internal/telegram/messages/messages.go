package messages

import "fmt"

// Common
const (
	Error = "❌ Sorry, there was an error. Please try again."
)

// Support bot
const (
	Welcome = `👋 Welcome to our store!

You can:
• Browse products
• Make purchases
• Contact support at any time

Just send a message here to reach our support team!`

	SupportHelp = `💬 <b>Support</b>

Send any message or media to this chat:
📝 Text messages
📷 Photos
🎥 Videos
📄 Documents

Our team typically responds within 24 hours.`
)

// Fulfillment
const (
	PaymentConfirmed = "✅ Payment confirmed! Thank you for your purchase."

	VIPActivated      = "⭐ Your VIP subscription is now active!"
	CustomVideoNotice = "🎬 Your custom video is in progress. We will send it to you here once it is ready."
	VideoCallNotice   = "📞 A manager will contact you shortly to schedule your video call."
	RatingThanks      = "🌟 Thank you! Your rating will be sent to you here soon."
)

func DonationThanks(amount float64, message string) string {
	text := fmt.Sprintf("💖 Thank you so much for your %.2f donation!", amount)
	if message != "" {
		text += fmt.Sprintf("\n\n📝 Your message: “%s”", message)
	}
	return text
}

func ProductCaption(name string, price float64, description string) string {
	caption := fmt.Sprintf("<b>%s</b>\n💵 %.2f", name, price)
	if description != "" {
		caption += "\n\n" + description
	}
	return caption
}

func BundleCaption(name string, price float64, description string) string {
	caption := fmt.Sprintf("🎁 <b>%s</b>\n💵 %.2f", name, price)
	if description != "" {
		caption += "\n\n" + description
	}
	return caption
}

func SupportReply(text string) string {
	return fmt.Sprintf("💬 <b>Support Team:</b>\n\n%s", text)
}
