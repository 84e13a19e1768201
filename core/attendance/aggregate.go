package attendance

// Aggregate groups records by student in a single pass.
// Students keep the order in which they first appear in records, and each
// student's DayRecords keep the order of records; no map iteration is involved.
func Aggregate(records []Record) []StudentSummary {
	summaries := make([]StudentSummary, 0)
	index := make(map[int64]int) // student ID -> position in summaries

	for _, rec := range records {
		pos, ok := index[rec.StudentID]
		if !ok {
			pos = len(summaries)
			index[rec.StudentID] = pos
			summaries = append(summaries, StudentSummary{
				StudentID: rec.StudentID,
				Name:      rec.StudentName,
				Records:   make([]DayRecord, 0),
			})
		}
		if !rec.HasLesson {
			continue
		}
		s := &summaries[pos]
		s.Records = append(s.Records, DayRecord{Date: rec.Date, Present: rec.Present})
		if rec.Present {
			s.Present++
		}
	}

	for i := range summaries {
		summaries[i].Absent = summaries[i].Total() - summaries[i].Present
	}
	return summaries
}
