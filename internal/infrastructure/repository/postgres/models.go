package postgres

import (
	"database/sql"
	"time"
)

// Table models leave out the surrogate id column so they can be used for
// both inserts and selects.

type teamTableModel struct {
	PublicID  string    `db:"public_id"`
	Name      string    `db:"name"`
	Country   string    `db:"country"`
	Region    string    `db:"region"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type playerTableModel struct {
	PublicID  string         `db:"public_id"`
	TeamID    sql.NullString `db:"team_public_id"`
	Name      string         `db:"name"`
	Role      string         `db:"role"`
	Country   string         `db:"country"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type eventTableModel struct {
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	Status    string     `db:"status"`
	Featured  bool       `db:"featured"`
	Format    string     `db:"format"`
	StartDate *time.Time `db:"start_date"`
	EndDate   *time.Time `db:"end_date"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

type matchTableModel struct {
	PublicID           string         `db:"public_id"`
	ExternalID         sql.NullString `db:"external_id"`
	EventID            sql.NullString `db:"event_public_id"`
	Team1ID            string         `db:"team1_public_id"`
	Team2ID            string         `db:"team2_public_id"`
	Format             string         `db:"format"`
	Status             string         `db:"status"`
	Team1Score         int            `db:"team1_score"`
	Team2Score         int            `db:"team2_score"`
	WinnerID           sql.NullString `db:"winner_public_id"`
	CurrentMap         int            `db:"current_map"`
	CurrentMapStatus   string         `db:"current_map_status"`
	IngestionRequestID sql.NullString `db:"ingestion_request_id"`
	ScheduledAt        *time.Time     `db:"scheduled_at"`
	StartedAt          *time.Time     `db:"started_at"`
	CompletedAt        *time.Time     `db:"completed_at"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

type mapTableModel struct {
	MatchID         string         `db:"match_public_id"`
	Number          int            `db:"map_number"`
	Name            string         `db:"map_name"`
	GameMode        string         `db:"game_mode"`
	Team1Score      int            `db:"team1_score"`
	Team2Score      int            `db:"team2_score"`
	Team1Rounds     sql.NullInt64  `db:"team1_rounds"`
	Team2Rounds     sql.NullInt64  `db:"team2_rounds"`
	Status          string         `db:"status"`
	WinnerID        sql.NullString `db:"winner_public_id"`
	StartedAt       *time.Time     `db:"started_at"`
	EndedAt         *time.Time     `db:"ended_at"`
	DurationSeconds int            `db:"duration_seconds"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

type playerStatTableModel struct {
	MatchID           string         `db:"match_public_id"`
	PlayerID          string         `db:"player_public_id"`
	TeamID            sql.NullString `db:"team_public_id"`
	Hero              string         `db:"hero"`
	HeroRole          string         `db:"hero_role"`
	TimePlayedSeconds int            `db:"time_played_seconds"`
	Eliminations      int            `db:"eliminations"`
	Assists           int            `db:"assists"`
	Deaths            int            `db:"deaths"`
	DamageDealt       int            `db:"damage_dealt"`
	DamageTaken       int            `db:"damage_taken"`
	HealingDone       int            `db:"healing_done"`
	DamageBlocked     int            `db:"damage_blocked"`
	Extra             string         `db:"extra"`
}

type voteTableModel struct {
	UserID    string    `db:"user_id"`
	Kind      string    `db:"votable_type"`
	TargetID  string    `db:"votable_id"`
	Type      string    `db:"vote_type"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type voteCountsRow struct {
	Upvotes   int `db:"upvotes"`
	Downvotes int `db:"downvotes"`
}
