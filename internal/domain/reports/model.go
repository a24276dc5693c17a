package reports

import "church-admin-go/internal/domain/church"

const (
	Bracket0To18  = "0-18"
	Bracket19To35 = "19-35"
	Bracket36To55 = "36-55"
	Bracket56Plus = "56+"
)

type MemberStat struct {
	ChurchID string
	Age      *int
	Gender   string
}

type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type ChurchCount struct {
	ChurchID string `json:"church_id"`
	Name     string `json:"name"`
	Count    int    `json:"count"`
}

type Summary struct {
	TotalChurches      int           `json:"total_churches"`
	TotalMembers       int           `json:"total_members"`
	AverageAge         float64       `json:"average_age"`
	TotalTithes        float64       `json:"total_tithes"`
	TotalAttendance    int           `json:"total_attendance"`
	ChurchesWithData   int           `json:"churches_with_data"`
	ChurchesIncomplete int           `json:"churches_incomplete"`
	MembersPerChurch   []ChurchCount `json:"members_per_church"`
	AgeBrackets        []Bucket      `json:"age_brackets"`
	Genders            []Bucket      `json:"genders"`
}

type Dataset struct {
	Churches []church.WithMemberCount
	Members  []MemberStat
}
