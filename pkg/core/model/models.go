package model

type BadgeStatus string

const (
	BadgeStatusPermanent BadgeStatus = "PERMANENT"
	BadgeStatusTemporary BadgeStatus = "TEMPORARY"
	BadgeStatusOpen      BadgeStatus = "OPEN"
)

func (s BadgeStatus) IsValid() bool {
	return s == BadgeStatusPermanent || s == BadgeStatusTemporary || s == BadgeStatusOpen
}

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleCoordinator Role = "coordinator"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleCoordinator
}

// Departments a sewadar can be assigned to. Free-text department values from
// imports are kept as-is; this catalog backs form dropdowns and validation of
// manual entry.
var Departments = []string{
	"GENERAL",
	"LANGAR",
	"PANDAL",
	"SECURITY",
	"TRAFFIC",
	"DISPENSARY",
	"CANTEEN",
	"BAL SATSANG",
	"PUBLICATIONS",
}

// Sewadar is a volunteer tracked by the system
type Sewadar struct {
	ID               string
	BadgeNumber      string
	Name             string
	GuardianName     string // father's or husband's name
	DOB              string // organization date format, kept as text
	Gender           Gender
	BadgeStatus      BadgeStatus
	Zone             string
	AreaName         string
	AreaCode         string
	CenterName       string
	CenterCode       string
	Department       string
	ContactNumber    string
	EmergencyContact string
}

// Area is a regional grouping of centers
type Area struct {
	Code string
	Name string
	Zone string
}

// Center is a local organizational unit within an area
type Center struct {
	Code     string
	Name     string
	AreaCode string
}

// Event is a sewa occasion attendance is recorded against.
// RRule, when set, describes the recurrence of the event (e.g. weekly
// satsang); Date is the first occurrence.
type Event struct {
	ID         string
	Name       string
	Date       string // YYYY-MM-DD
	CenterCode string
	AreaCode   string
	RRule      string
}

// AttendanceRecord captures one submission: which sewadars attended an event
// occurrence at a center, with an optional scanned nominal-roll reference.
type AttendanceRecord struct {
	ID             string
	EventID        string
	EventDate      string // YYYY-MM-DD occurrence date
	CenterCode     string
	SewadarIDs     []string
	NominalRollURL string
	SubmittedBy    string
	SubmittedAt    string // RFC3339
}

// User is a login account. Coordinators are scoped to a single center;
// admins see the whole area.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	AreaCode     string
	CenterCode   string // empty for admins
}
