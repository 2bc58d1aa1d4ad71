package importer

import (
	"fmt"
	"strings"

	"github.com/sewasangat/attendance/pkg/core/model"
	"github.com/sewasangat/attendance/pkg/intake"
)

// Column headers expected in sewadar import files. Files exported from the
// organization's badge system use exactly these labels.
const (
	ColBadgeNumber      = "Badge_Number"
	ColName             = "Sewadar_Name"
	ColGuardianName     = "Father_Husband_Name"
	ColDOB              = "DOB"
	ColGender           = "Gender"
	ColBadgeStatus      = "Badge_Status"
	ColZone             = "Zone"
	ColAreaName         = "Area"
	ColAreaCode         = "Area_Code"
	ColCenterName       = "Centre"
	ColCenterCode       = "Centre_Code"
	ColDepartment       = "Department"
	ColContactNumber    = "Contact_No"
	ColEmergencyContact = "Emergency_Contact"
)

// ImportRow is one normalized spreadsheet line: a sewadar record in
// canonical shape (no ID yet) plus the raw source row for error reporting.
type ImportRow struct {
	Sewadar model.Sewadar
	Source  intake.Row
}

// NormalizeRow canonicalizes a raw row into an ImportRow, or returns the
// field-level problems that disqualify it. Normalization is total for every
// optional field: bad or missing values fall back to defaults rather than
// failing, and only absent mandatory fields reject the row.
func NormalizeRow(row intake.Row) (*ImportRow, []string) {
	badge := strings.ToUpper(strings.TrimSpace(row.Get(ColBadgeNumber)))
	name := strings.TrimSpace(row.Get(ColName))

	var problems []string
	if badge == "" {
		problems = append(problems, fmt.Sprintf("missing required field %s", ColBadgeNumber))
	}
	if name == "" {
		problems = append(problems, fmt.Sprintf("missing required field %s", ColName))
	}
	if len(problems) > 0 {
		return nil, problems
	}

	// Area and center codes come from the file when present, otherwise they
	// are derived from the badge number.
	areaCode := strings.ToUpper(strings.TrimSpace(row.Get(ColAreaCode)))
	if areaCode == "" {
		areaCode = model.AreaCodeFromBadge(badge)
	}
	centerCode := strings.TrimSpace(row.Get(ColCenterCode))
	if centerCode == "" {
		centerCode = model.CenterCodeFromBadge(badge)
	}

	s := model.Sewadar{
		BadgeNumber:      badge,
		Name:             name,
		GuardianName:     strings.TrimSpace(row.Get(ColGuardianName)),
		DOB:              strings.TrimSpace(row.Get(ColDOB)),
		Gender:           normalizeGender(row.Get(ColGender)),
		BadgeStatus:      model.NormalizeBadgeStatus(row.Get(ColBadgeStatus)),
		Zone:             strings.TrimSpace(row.Get(ColZone)),
		AreaName:         strings.TrimSpace(row.Get(ColAreaName)),
		AreaCode:         areaCode,
		CenterName:       strings.TrimSpace(row.Get(ColCenterName)),
		CenterCode:       centerCode,
		Department:       strings.ToUpper(strings.TrimSpace(row.Get(ColDepartment))),
		ContactNumber:    strings.TrimSpace(row.Get(ColContactNumber)),
		EmergencyContact: strings.TrimSpace(row.Get(ColEmergencyContact)),
	}

	return &ImportRow{Sewadar: s, Source: row}, nil
}

// normalizeGender keeps MALE/FEMALE (any casing) and drops anything else to
// empty, so an unrecognized value never blocks a row.
func normalizeGender(raw string) model.Gender {
	g := model.Gender(strings.ToUpper(strings.TrimSpace(raw)))
	if g.IsValid() {
		return g
	}
	return ""
}
