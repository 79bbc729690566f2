package models

import "time"

const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleNone      = "none"
)

const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

type User struct {
	UserID  string    `json:"user_id"`
	Email   string    `json:"email"`
	Created time.Time `json:"created_at"`
}

type Session struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RoleAssignment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Application struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	SeasonID      string      `json:"season_id"`
	DiscordID     string      `json:"discord_id"`
	RobloxID      string      `json:"roblox_id"`
	RobloxUser    string      `json:"roblox_username"`
	Age           int         `json:"age"`
	ActivityLevel int         `json:"activity_level"`
	Experience    string      `json:"admin_experience"`
	OtherServers  string      `json:"other_servers"`
	RuleAnswers   RuleAnswers `json:"rule_answers"`
	Status        string      `json:"status"`
	Notes         string      `json:"notes"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// RuleAnswers holds the free-text rule-understanding answers of the
// application form. Every field is required on submission.
type RuleAnswers struct {
	FRP        string `json:"frp_understanding"`
	VDM        string `json:"vdm_understanding"`
	TaschenRP  string `json:"taschen_rp_understanding"`
	ServerAge  string `json:"server_age_understanding"`
	Bodycam    string `json:"bodycam_understanding"`
	FriendRule string `json:"friend_rule_violation"`
	Situation  string `json:"situation_handling"`
}

// ApplicationSummary is the minimal projection returned for a user's own
// application history. Full answers stay out of the response.
type ApplicationSummary struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ApplicationSeason struct {
	SeasonID  string    `json:"season_id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type PartnerServer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Website     string    `json:"website"`
	Owner       string    `json:"owner"`
	Members     int       `json:"members"`
	Type        string    `json:"type"`
	LogoURL     string    `json:"logo_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SubServer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	Status      string    `json:"status"`
	Link        string    `json:"link"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Profile struct {
	UserID          string    `json:"user_id"`
	Username        string    `json:"username"`
	DiscordID       string    `json:"discord_id"`
	RobloxID        string    `json:"roblox_id"`
	AvatarURL       string    `json:"avatar_url"`
	UsernameChanged time.Time `json:"username_changed_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type TeamSettings struct {
	ID               string    `json:"id"`
	MeetingDay       string    `json:"meeting_day"`
	MeetingTime      string    `json:"meeting_time"`
	MeetingFrequency string    `json:"meeting_frequency"`
	MeetingLocation  string    `json:"meeting_location"`
	MeetingNotes     string    `json:"meeting_notes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
