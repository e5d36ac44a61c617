package services

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

// Notifier receives ledger events. Implementations must not block the caller;
// the ledger never waits on, or fails because of, a notification.
type Notifier interface {
	MemberEnrolled(cardNumber string, businessID int64)
	PointsEarned(cardNumber string, businessID, points, balance int64)
	PointsRedeemed(cardNumber string, businessID, points, balance int64)
}

// NotificationService sends SMS and templated email through the external
// gateway APIs. Every send runs in its own goroutine; failures are counted and
// logged, never surfaced.
type NotificationService struct {
	SMSAPIURL   string
	SMSPassKey  string
	EmailAPIURL string
	EmailSender string

	directory *AuthServerClient
	client    *http.Client
}

func NewNotificationService(smsAPIURL, smsPassKey, emailAPIURL, emailSender string, directory *AuthServerClient) *NotificationService {
	return &NotificationService{
		SMSAPIURL:   smsAPIURL,
		SMSPassKey:  smsPassKey,
		EmailAPIURL: emailAPIURL,
		EmailSender: emailSender,
		directory:   directory,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// SendSMS delivers a single SMS through the gateway.
func (ns *NotificationService) SendSMS(mobileNumber, message string) error {
	if ns.SMSAPIURL == "" {
		return fmt.Errorf("sms gateway not configured")
	}
	if mobileNumber == "" || message == "" {
		return fmt.Errorf("mobile number and message are required")
	}

	smsURL := fmt.Sprintf("%s?option=publishMessage&passKey=%s&phoneNumber=%s&customMessage=%s",
		ns.SMSAPIURL, url.QueryEscape(ns.SMSPassKey), url.QueryEscape(mobileNumber), url.QueryEscape(message))

	resp, err := ns.client.Get(smsURL)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// SendEmail delivers a single email through the gateway.
func (ns *NotificationService) SendEmail(recipient, subject, htmlBody string) error {
	if ns.EmailAPIURL == "" {
		return fmt.Errorf("email gateway not configured")
	}
	if recipient == "" {
		return fmt.Errorf("recipient is required")
	}

	emailURL := fmt.Sprintf("%s?sender=%s&recipient=%s&subject=%s&body=%s",
		ns.EmailAPIURL, url.QueryEscape(ns.EmailSender), url.QueryEscape(recipient),
		url.QueryEscape(subject), url.QueryEscape(htmlBody))

	resp, err := ns.client.Get(emailURL)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("email gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// notifyMember looks up the member's contact details and fires SMS and email.
func (ns *NotificationService) notifyMember(cardNumber, subject, message string) {
	member, err := ns.directory.GetMemberByCard(cardNumber)
	if err != nil || member == nil {
		log.Printf("Notification skipped: member lookup failed for card %s: %v", cardNumber, err)
		return
	}

	if member.MobileNumber != "" {
		if err := ns.SendSMS(member.MobileNumber, message); err != nil {
			notificationFailures.WithLabelValues("sms").Inc()
			log.Printf("SMS notification failed for card %s: %v", cardNumber, err)
		}
	}
	if member.Email != "" {
		body := fmt.Sprintf("<p>Dear %s,</p><p>%s</p>", member.FullName, message)
		if err := ns.SendEmail(member.Email, subject, body); err != nil {
			notificationFailures.WithLabelValues("email").Inc()
			log.Printf("Email notification failed for card %s: %v", cardNumber, err)
		}
	}
}

func (ns *NotificationService) businessName(businessID int64) string {
	business, err := ns.directory.GetBusinessByID(businessID)
	if err != nil || business == nil {
		return fmt.Sprintf("business %d", businessID)
	}
	return business.BusinessName
}

func (ns *NotificationService) MemberEnrolled(cardNumber string, businessID int64) {
	go func() {
		name := ns.businessName(businessID)
		ns.notifyMember(cardNumber,
			"Welcome to "+name,
			fmt.Sprintf("Your loyalty card %s is now enrolled with %s. Start earning points on every purchase!", cardNumber, name))
	}()
}

func (ns *NotificationService) PointsEarned(cardNumber string, businessID, points, balance int64) {
	go func() {
		name := ns.businessName(businessID)
		ns.notifyMember(cardNumber,
			"Points credited at "+name,
			fmt.Sprintf("You earned %d points at %s. Current balance: %d points.", points, name, balance))
	}()
}

func (ns *NotificationService) PointsRedeemed(cardNumber string, businessID, points, balance int64) {
	go func() {
		name := ns.businessName(businessID)
		ns.notifyMember(cardNumber,
			"Points redeemed at "+name,
			fmt.Sprintf("You redeemed %d points at %s. Remaining balance: %d points.", points, name, balance))
	}()
}
