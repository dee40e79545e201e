package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	krtext "github.com/kr/text"
)

type EmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
}

// SendShareEmail mails the public O.S. approval link to the client.
func SendShareEmail(toEmail, clientName, workshopName, plate, shareURL string) error {
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Orçamento</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background-color: #f3f4f6;">
    <table role="presentation" style="width: 100%%; border-collapse: collapse;">
        <tr>
            <td style="padding: 40px 0; text-align: center; background: linear-gradient(135deg, #f97316 0%%, #c2410c 100%%);">
                <h1 style="margin: 0; color: #ffffff; font-size: 28px; font-weight: bold;">
                    🔧 %s
                </h1>
            </td>
        </tr>
        <tr>
            <td style="padding: 40px 20px;">
                <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);">
                    <tr>
                        <td style="padding: 40px;">
                            <h2 style="margin: 0 0 20px 0; color: #1f2937; font-size: 24px;">Olá, %s!</h2>
                            <p style="margin: 0 0 20px 0; color: #4b5563; font-size: 16px; line-height: 1.6;">
                                O orçamento do veículo <strong>%s</strong> está pronto.
                                Revise os itens e aprove ou recuse pelo link abaixo.
                            </p>
                            <table role="presentation" style="margin: 20px 0;">
                                <tr>
                                    <td style="border-radius: 8px; background: linear-gradient(135deg, #f97316 0%%, #c2410c 100%%);">
                                        <a href="%s" style="display: inline-block; padding: 16px 32px; color: #ffffff; text-decoration: none; font-size: 16px; font-weight: 600;">
                                            Ver orçamento
                                        </a>
                                    </td>
                                </tr>
                            </table>
                            <p style="color: #e74c3c; margin-top: 30px;">⚠️ Este link expira em 7 dias.</p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
	`, workshopName, clientName, plate, shareURL)

	textBody := plainTextBody(fmt.Sprintf(
		"Olá, %s! O orçamento do veículo %s está pronto. Revise os itens e aprove ou recuse pelo link: %s (o link expira em 7 dias).",
		clientName, plate, shareURL))

	return sendEmail(toEmail, fmt.Sprintf("Orçamento do veículo %s", plate), htmlBody, textBody)
}

// SendInvitationEmail mails a workshop membership invitation.
func SendInvitationEmail(toEmail, inviterName, workshopName, invitationToken string) error {
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	invitationLink := fmt.Sprintf("%s/invitation/accept?token=%s", frontendURL, invitationToken)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Convite</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background-color: #f3f4f6;">
    <table role="presentation" style="width: 100%%; border-collapse: collapse;">
        <tr>
            <td style="padding: 40px 0; text-align: center; background: linear-gradient(135deg, #f97316 0%%, #c2410c 100%%);">
                <h1 style="margin: 0; color: #ffffff; font-size: 28px; font-weight: bold;">
                    🔧 Oficina Plus
                </h1>
            </td>
        </tr>
        <tr>
            <td style="padding: 40px 20px;">
                <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);">
                    <tr>
                        <td style="padding: 40px;">
                            <h2 style="margin: 0 0 20px 0; color: #1f2937; font-size: 24px;">Convite para equipe</h2>
                            <p style="margin: 0 0 20px 0; color: #4b5563; font-size: 16px; line-height: 1.6;">
                                <strong>%s</strong> convidou você para a equipe da oficina <strong>"%s"</strong>.
                            </p>
                            <table role="presentation" style="margin: 20px 0;">
                                <tr>
                                    <td style="border-radius: 8px; background: linear-gradient(135deg, #f97316 0%%, #c2410c 100%%);">
                                        <a href="%s" style="display: inline-block; padding: 16px 32px; color: #ffffff; text-decoration: none; font-size: 16px; font-weight: 600;">
                                            Aceitar convite
                                        </a>
                                    </td>
                                </tr>
                            </table>
                            <p style="color: #e74c3c; margin-top: 30px;">⚠️ Este convite expira em 7 dias.</p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
	`, inviterName, workshopName, invitationLink)

	textBody := plainTextBody(fmt.Sprintf(
		"%s convidou você para a equipe da oficina \"%s\". Aceite o convite em: %s (o convite expira em 7 dias).",
		inviterName, workshopName, invitationLink))

	return sendEmail(toEmail, fmt.Sprintf("%s convidou você para a Oficina Plus", inviterName), htmlBody, textBody)
}

// plainTextBody wraps the fallback text body at mail-friendly width.
func plainTextBody(msg string) string {
	return krtext.Wrap(msg, 72)
}

func sendEmail(to, subject, htmlBody, textBody string) error {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		log.Println("⚠️ RESEND_API_KEY not set, email not sent")
		return fmt.Errorf("RESEND_API_KEY not set")
	}

	fromEmail := os.Getenv("FROM_EMAIL")
	if fromEmail == "" {
		fromEmail = "Oficina Plus <noreply@oficinaplus.com.br>"
	}

	emailReq := EmailRequest{
		From:    fromEmail,
		To:      []string{to},
		Subject: subject,
		HTML:    htmlBody,
		Text:    textBody,
	}

	jsonData, err := json.Marshal(emailReq)
	if err != nil {
		log.Printf("❌ Error marshaling email request: %v", err)
		return err
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		log.Printf("❌ Error creating HTTP request: %v", err)
		return err
	}

	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		log.Printf("❌ Error sending email via Resend: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("❌ Resend API error: status %d", resp.StatusCode)
		return fmt.Errorf("email API returned status: %d", resp.StatusCode)
	}

	SafeLogf("✅ Email sent successfully to %s", to)
	return nil
}
