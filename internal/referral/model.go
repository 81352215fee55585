package referral

import "time"

// MaxDepth caps how far up the chain edges are created for a new member.
const MaxDepth = 15

// Referral is one edge of the referral forest. Edges deeper than 1 mirror the
// direct referrer's own upward chain.
type Referral struct {
	ID            int64     `db:"id" json:"id"`
	ReferrerEmail string    `db:"referrer_email" json:"referrer_email"`
	ReferredEmail string    `db:"referred_email" json:"referred_email"`
	LevelDepth    int       `db:"level_depth" json:"level_depth"`
	ReferralCode  string    `db:"referral_code" json:"referral_code"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Referrer is the owner of a referral code.
type Referrer struct {
	Email string `db:"email"`
	Name  string `db:"name"`
}

// Edge is an ancestor of the new member at the given level.
type Edge struct {
	ReferrerEmail string
	LevelDepth    int
}

type ValidateResponse struct {
	IsValid  bool          `json:"isValid"`
	Referrer *ReferrerInfo `json:"referrer,omitempty"`
	Message  string        `json:"message,omitempty"`
}

type ReferrerInfo struct {
	Name string `json:"name"`
}

type ApplyRequest struct {
	ReferralCode string `json:"referral_code" binding:"required"`
}

type ApplyResult struct {
	ReferrerEmail string `json:"referrer_email"`
	Levels        int    `json:"levels"`
}

type LevelCount struct {
	Level int `db:"level_depth" json:"level"`
	Count int `db:"count" json:"count"`
}

type DirectReferral struct {
	Email     string    `db:"referred_email" json:"email"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Stats struct {
	Code           string           `json:"code"`
	TotalReferrals int              `json:"total_referrals"`
	DirectCount    int              `json:"direct_count"`
	Levels         []LevelCount     `json:"levels"`
	Direct         []DirectReferral `json:"direct"`
}
