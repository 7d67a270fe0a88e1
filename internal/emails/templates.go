package emails

import (
	"fmt"
	"strings"
)

func invitationContent(guestName, eventTitle, inviteLink string) string {
	return fmt.Sprintf(`
    <h1>You're Invited!</h1>
    <p>Hi %s,</p>
    <p>You have been invited to <strong>%s</strong>.</p>
    <p>Open your personal invitation to see the details and let the host know if you can make it:</p>
    <center>
      <a href="%s" class="eh-button">View Invitation &amp; RSVP</a>
    </center>
    <p style="margin-top:20px;font-size:14px;color:#666;">
      This link is personal to you. If you were not expecting this invitation, you can safely ignore this email.
    </p>
    <p>— The EventHost Team</p>
`, EscapeHTML(guestName), EscapeHTML(eventTitle), inviteLink)
}

func cancellationContent(guestName, eventTitle string) string {
	return fmt.Sprintf(`
    <h1>Event Cancelled</h1>
    <p>Hi %s,</p>
    <p>We're sorry to let you know that <strong>%s</strong> has been cancelled by the host.</p>
    <p>If the event is rescheduled, you will receive a new invitation.</p>
    <p>— The EventHost Team</p>
`, EscapeHTML(guestName), EscapeHTML(eventTitle))
}

func announcementContent(title, content string) string {
	return fmt.Sprintf(`
    <h1>%s</h1>
    <p>%s</p>
    <p>— The EventHost Team</p>
`, EscapeHTML(title), EscapeHTML(content))
}

func pollInviteContent(pollTitle string, voteLinks []VoteLink) string {
	var buttons strings.Builder
	for _, l := range voteLinks {
		fmt.Fprintf(&buttons, `<a href="%s" class="eh-button">%s</a>`, l.URL, EscapeHTML(l.Label))
	}
	return fmt.Sprintf(`
    <h1>%s</h1>
    <p>The host wants your opinion. Cast your vote with one click:</p>
    <center>%s</center>
    <p style="margin-top:20px;font-size:14px;color:#666;">
      Voting again replaces your previous answer.
    </p>
    <p>— The EventHost Team</p>
`, EscapeHTML(pollTitle), buttons.String())
}
