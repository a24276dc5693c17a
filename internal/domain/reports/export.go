package reports

import (
	"encoding/csv"
	"io"
	"strconv"

	"church-admin-go/internal/domain/church"
)

var churchCSVHeader = []string{
	"Church Name",
	"Location",
	"Pastor Name",
	"Pastor Phone",
	"Pastor Email",
	"Attendance",
	"Tithes",
	"Member Count",
}

func WriteChurchesCSV(w io.Writer, churches []church.WithMemberCount) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(churchCSVHeader); err != nil {
		return err
	}
	for _, item := range churches {
		record := []string{
			item.Name,
			item.Location,
			item.PastorName,
			item.PastorPhone,
			item.PastorEmail,
			strconv.Itoa(item.Attendance),
			strconv.FormatFloat(item.Tithes, 'f', 2, 64),
			strconv.FormatInt(item.MemberCount, 10),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
