// Package share builds outbound reminder messages and the links that open
// them in a mail or chat client.
package share

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Joseda-hg/taskminder/internal/model"
)

const (
	gmailComposeURL = "https://mail.google.com/mail/?view=cm&fs=1"
	whatsAppSendURL = "https://api.whatsapp.com/send"
)

var ErrNoRecipient = errors.New("email recipient is required")

// Message is the plain-text reminder used as the email body.
func Message(task model.Task) string {
	var b strings.Builder
	b.WriteString("Hello,\n\nThis is a reminder for the following task:\n\n")
	fmt.Fprintf(&b, "Title: %s\n", task.Title)
	fmt.Fprintf(&b, "Priority: %s\n", task.Priority)
	if task.Deadline != nil {
		fmt.Fprintf(&b, "Deadline: %s\n", formatDeadline(*task.Deadline))
	}
	fmt.Fprintf(&b, "Description: %s\n\nRegards.", task.Description)
	return b.String()
}

func Subject(task model.Task) string {
	return "Task reminder: " + task.Title
}

// EmailURL returns a Gmail compose link addressed to recipient.
func EmailURL(recipient string, task model.Task) (string, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return "", ErrNoRecipient
	}
	return gmailComposeURL +
		"&to=" + url.QueryEscape(recipient) +
		"&su=" + url.QueryEscape(Subject(task)) +
		"&body=" + url.QueryEscape(Message(task)), nil
}

// ChatMessage is the reminder formatted with *bold* labels for chat apps.
func ChatMessage(task model.Task) string {
	var b strings.Builder
	b.WriteString("*Task reminder:*\n\n")
	fmt.Fprintf(&b, "*Title:* %s\n", task.Title)
	fmt.Fprintf(&b, "*Priority:* %s\n", task.Priority)
	if task.Deadline != nil {
		fmt.Fprintf(&b, "*Deadline:* %s\n", formatDeadline(*task.Deadline))
	}
	fmt.Fprintf(&b, "*Description:* %s", task.Description)
	return b.String()
}

func WhatsAppURL(task model.Task) string {
	return whatsAppSendURL + "?text=" + url.QueryEscape(ChatMessage(task))
}

func formatDeadline(deadline model.Date) string {
	return model.FormatDeadline(deadline, model.DeadlineScheduled)
}
