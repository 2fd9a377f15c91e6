package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"lms/config"
)

// SendEmail sends an HTML email over SMTP
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	if from == "" {
		return fmt.Errorf("outgoing email is not configured")
	}

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: SafeSteps Training <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1B3A57; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B3A57; line-height: 1.6; }
			.content h2 { color: #1B3A57; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #4CAF50; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #4CAF50; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>SAFESTEPS TRAINING</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 SafeSteps Training. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendWelcomeEmail fires on account creation. Failures are logged inside
// SendEmail and never reach the caller.
func SendWelcomeEmail(email, name, tempPassword string) {
	subject := "Welcome to SafeSteps Training"
	credentials := ""
	if tempPassword != "" {
		credentials = fmt.Sprintf(`
		<div class="info-box">
			<strong>Your login:</strong> %s<br>
			<strong>Temporary password:</strong> %s
		</div>
		<p>Please change your password after your first login.</p>`, email, tempPassword)
	}
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>SafeSteps Training</strong>! Your account has been created.</p>
		%s
		<p>Log in to start your training modules.</p>
		<a href="%s/login" class="btn">Go to Training</a>
	`, name, credentials, config.AppConfig.FrontendURL)

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome Onboard!", body))
}

// SendPasswordResetEmail is sent synchronously: the reset flow treats mail
// delivery as a hard dependency, unlike every other trigger here.
func SendPasswordResetEmail(email, name, token string) error {
	subject := "Reset your SafeSteps Training password"
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", config.AppConfig.FrontendURL, token)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We received a request to reset your password. The link below is valid for 1 hour and can be used once.</p>
		<a href="%s" class="btn">Reset Password</a>
		<p>If you did not request this, you can safely ignore this email.</p>
	`, name, resetLink)

	return SendEmail([]string{email}, subject, getEmailTemplate("Password Reset", body))
}

// SendCertificateEmail congratulates a learner on finishing all modules
func SendCertificateEmail(email, name, serialNumber string, totalModules int) {
	subject := "Your Certificate of Completion"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations! You have completed all %d training modules.</p>
		<div class="info-box" style="text-align: center;">
			<p style="margin-bottom: 10px;">Your Certificate Number:</p>
			<h2 style="margin: 0;">%s</h2>
		</div>
		<p>You can view and download your certificate from your dashboard.</p>
	`, name, totalModules, serialNumber)

	go SendEmail([]string{email}, subject, getEmailTemplate("Certificate of Completion", body))
}

// SendDeadlineReminderEmail warns an org admin about an upcoming module deadline
func SendDeadlineReminderEmail(email, name, moduleTitle string, deadline string) {
	subject := "Upcoming training deadline: " + moduleTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>The module <strong>%s</strong> is due on <strong>%s</strong> for your organization.</p>
		<p>Please make sure your learners are on track.</p>
	`, name, moduleTitle, deadline)

	go SendEmail([]string{email}, subject, getEmailTemplate("Deadline Reminder", body))
}
