package notify

import (
	"context"
	"fmt"
)

const signature = "\n\n- TIC Wallet"

func (s *Service) SendWelcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf("Hi %s,\n\nYour wallet is ready. Share your referral code to grow your network.", name)
	return s.enqueue(ctx, Job{Type: TypeWelcome, To: to, Subject: "Welcome to TIC Wallet", Body: body + signature})
}

func (s *Service) SendPeerTransferReceived(ctx context.Context, to, from, amount, note string) error {
	body := fmt.Sprintf("You received $%s in your Main Wallet from %s.", amount, from)
	if note != "" {
		body += "\n\nNote: " + note
	}
	return s.enqueue(ctx, Job{Type: TypeTransferIn, To: to, Subject: "You received $" + amount, Body: body + signature})
}

func (s *Service) SendReferralJoined(ctx context.Context, referrerEmail, referredEmail string) error {
	body := fmt.Sprintf("%s joined using your referral code.", referredEmail)
	return s.enqueue(ctx, Job{Type: TypeReferral, To: referrerEmail, Subject: "New referral", Body: body + signature})
}

func (s *Service) SendFundingStatus(ctx context.Context, to, kind, status, amount string) error {
	subject := fmt.Sprintf("Your %s request is %s", kind, status)
	body := fmt.Sprintf("Your %s request for $%s is now %s.", kind, amount, status)
	return s.enqueue(ctx, Job{Type: TypeFundingStatus, To: to, Subject: subject, Body: body + signature})
}
