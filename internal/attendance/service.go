// Package attendance implements attendance recording and aggregation: the
// batch upsert keyed by (student, date, subject, teacher), the teacher
// authorization check that gates it, and the percentage views served to
// teachers and students.
package attendance

import (
	"context"
	"fmt"
	"math"
	"sort"

	"classtrack/internal/store"
)

// NotAuthorizedError is returned when a teacher marks attendance for a
// subject/department outside their assignment.
type NotAuthorizedError struct {
	Subject    string
	Department string
}

func (e *NotAuthorizedError) Error() string {
	if e.Department == "" {
		return fmt.Sprintf("you are not assigned to teach %s", e.Subject)
	}
	return fmt.Sprintf("you are not assigned to teach %s in %s", e.Subject, e.Department)
}

// Stats is a present/total pair with its rounded percentage.
type Stats struct {
	Present    int `json:"present"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// SubjectStats is one subject's breakdown.
type SubjectStats struct {
	Subject    string `json:"subject"`
	Present    int    `json:"present"`
	Absent     int    `json:"absent"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

// RecordView is a stored record annotated with the teacher's display name.
type RecordView struct {
	store.Record
	TeacherName string `json:"teacher_name"`
}

// StudentOverview is a roster entry with its overall attendance percentage,
// as shown on the teacher's student list.
type StudentOverview struct {
	store.StudentSummary
	Subject        string `json:"subject"`
	Percentage     int    `json:"attendance_percentage"`
	PercentageData Stats  `json:"attendance_percentage_data"`
}

// StudentDetail breaks one student's attendance down by subject, restricted
// to the calling teacher's own records.
type StudentDetail struct {
	Name              string                  `json:"name"`
	Department        string                  `json:"department"`
	Password          string                  `json:"password"`
	SubjectAttendance map[string]SubjectStats `json:"subject_attendance"`
	OverallPercentage int                     `json:"overall_percentage"`
	TotalRecords      int                     `json:"total_records"`
	TotalPresent      int                     `json:"total_present"`
}

// StudentRecords is a student's filtered record list for the teacher's
// attendance view.
type StudentRecords struct {
	Name       string         `json:"name"`
	Department string         `json:"department"`
	Records    []store.Record `json:"attendance_records"`
}

// SystemStats counts the entities across the document.
type SystemStats struct {
	Teachers              int `json:"teachers"`
	Students              int `json:"students"`
	Subjects              int `json:"subjects"`
	DepartmentAssignments int `json:"department_assignments"`
}

// Service runs attendance operations against the shared document.
type Service struct {
	guard *store.Guard
}

// NewService creates an attendance service.
func NewService(guard *store.Guard) *Service {
	return &Service{guard: guard}
}

// authorizeTeach reports whether the teacher may teach subject in
// department: the subject key must exist in the assignment and the
// department must be in its list.
func authorizeTeach(doc *store.Document, teacherID, subject, department string) error {
	assignment := doc.TeacherAssignments[teacherID]
	departments, ok := assignment.Subjects[subject]
	if !ok {
		return &NotAuthorizedError{Subject: subject}
	}
	for _, d := range departments {
		if d == department {
			return nil
		}
	}
	return &NotAuthorizedError{Subject: subject, Department: department}
}

// Mark records a batch of statuses for one (date, department, subject)
// sitting. The authorization check runs once, before any record is touched;
// per student an existing record for (date, subject, teacher) is replaced in
// place, otherwise a new one is appended. The document is persisted once for
// the whole batch.
func (s *Service) Mark(ctx context.Context, teacherID, date, department, subject string, statuses map[string]string) error {
	return s.guard.Update(ctx, func(doc *store.Document) error {
		if err := authorizeTeach(doc, teacherID, subject, department); err != nil {
			return err
		}
		if doc.AttendanceRecords == nil {
			doc.AttendanceRecords = map[string][]store.Record{}
		}
		for studentID, status := range statuses {
			records := doc.AttendanceRecords[studentID]
			record := store.Record{
				Date:      date,
				Subject:   subject,
				Status:    status,
				TeacherID: teacherID,
				Dept:      department,
			}
			replaced := false
			for i, r := range records {
				if r.Date == date && r.Subject == subject && r.TeacherID == teacherID {
					records[i] = record
					replaced = true
					break
				}
			}
			if !replaced {
				records = append(records, record)
			}
			doc.AttendanceRecords[studentID] = records
		}
		return nil
	})
}

// StudentAttendance returns the student's records newest first, each
// annotated with the teacher's display name, plus overall stats.
func (s *Service) StudentAttendance(ctx context.Context, studentID string) ([]RecordView, Stats, error) {
	var views []RecordView
	var stats Stats
	err := s.guard.View(ctx, func(doc *store.Document) error {
		records := append([]store.Record(nil), doc.AttendanceRecords[studentID]...)
		// Dates are YYYY-MM-DD, so lexicographic order is chronological.
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Date > records[j].Date
		})
		views = make([]RecordView, 0, len(records))
		for _, r := range records {
			name := r.TeacherID
			if a, ok := doc.TeacherAssignments[r.TeacherID]; ok {
				name = a.Name
			}
			views = append(views, RecordView{Record: r, TeacherName: name})
			if r.Status == "present" {
				stats.Present++
			}
		}
		stats.Total = len(records)
		stats.Percentage = percentage(stats.Present, stats.Total)
		return nil
	})
	return views, stats, err
}

// SubjectBreakdown groups the student's records by subject and computes one
// overall percentage across all records. The overall number is a
// sum-then-divide, not an average of per-subject percentages, so subjects
// with more records weigh more. Subjects appear in first-seen record order.
func (s *Service) SubjectBreakdown(ctx context.Context, studentID string) ([]SubjectStats, int, error) {
	var breakdown []SubjectStats
	overall := 0
	err := s.guard.View(ctx, func(doc *store.Document) error {
		index := map[string]int{}
		for _, r := range doc.AttendanceRecords[studentID] {
			i, ok := index[r.Subject]
			if !ok {
				i = len(breakdown)
				index[r.Subject] = i
				breakdown = append(breakdown, SubjectStats{Subject: r.Subject})
			}
			breakdown[i].Total++
			if r.Status == "present" {
				breakdown[i].Present++
			} else {
				breakdown[i].Absent++
			}
		}
		totalPresent, totalRecords := 0, 0
		for i := range breakdown {
			breakdown[i].Percentage = percentage(breakdown[i].Present, breakdown[i].Total)
			totalPresent += breakdown[i].Present
			totalRecords += breakdown[i].Total
		}
		overall = percentage(totalPresent, totalRecords)
		return nil
	})
	return breakdown, overall, err
}

// TeacherStudents lists every roster student in the teacher's departments
// with an overall percentage across all of the student's records, whoever
// wrote them, tagged with the subject of the most recent record.
func (s *Service) TeacherStudents(ctx context.Context, teacherID string) ([]StudentOverview, error) {
	var out []StudentOverview
	err := s.guard.View(ctx, func(doc *store.Document) error {
		for _, student := range scopedStudents(doc, teacherID) {
			records := doc.AttendanceRecords[student.ID]
			present := 0
			for _, r := range records {
				if r.Status == "present" {
					present++
				}
			}
			overview := StudentOverview{
				StudentSummary: student,
				Subject:        "All Subjects",
				Percentage:     percentage(present, len(records)),
				PercentageData: Stats{Present: present, Total: len(records), Percentage: percentage(present, len(records))},
			}
			if len(records) > 0 {
				overview.Subject = records[len(records)-1].Subject
			}
			out = append(out, overview)
		}
		return nil
	})
	return out, err
}

// StudentDetails returns a per-student subject breakdown restricted to
// records written by the calling teacher.
func (s *Service) StudentDetails(ctx context.Context, teacherID string) (map[string]StudentDetail, error) {
	out := map[string]StudentDetail{}
	err := s.guard.View(ctx, func(doc *store.Document) error {
		for _, student := range scopedStudents(doc, teacherID) {
			subjectStats := map[string]SubjectStats{}
			for _, r := range doc.AttendanceRecords[student.ID] {
				if r.TeacherID != teacherID {
					continue
				}
				st := subjectStats[r.Subject]
				st.Subject = r.Subject
				st.Total++
				if r.Status == "present" {
					st.Present++
				} else {
					st.Absent++
				}
				subjectStats[r.Subject] = st
			}
			totalPresent, totalRecords := 0, 0
			for subject, st := range subjectStats {
				st.Percentage = percentage(st.Present, st.Total)
				subjectStats[subject] = st
				totalPresent += st.Present
				totalRecords += st.Total
			}
			out[student.ID] = StudentDetail{
				Name:              student.Name,
				Department:        student.Department,
				Password:          student.Password,
				SubjectAttendance: subjectStats,
				OverallPercentage: percentage(totalPresent, totalRecords),
				TotalRecords:      totalRecords,
				TotalPresent:      totalPresent,
			}
		}
		return nil
	})
	return out, err
}

// TeacherSubjects returns the teacher's subject-to-departments mapping and
// the union of its departments.
func (s *Service) TeacherSubjects(ctx context.Context, teacherID string) (map[string][]string, []string, error) {
	subjects := map[string][]string{}
	var departments []string
	err := s.guard.View(ctx, func(doc *store.Document) error {
		if a, ok := doc.TeacherAssignments[teacherID]; ok && a.Subjects != nil {
			subjects = a.Subjects
		}
		set := map[string]bool{}
		for _, depts := range subjects {
			for _, d := range depts {
				set[d] = true
			}
		}
		departments = make([]string, 0, len(set))
		for d := range set {
			departments = append(departments, d)
		}
		sort.Strings(departments)
		return nil
	})
	return subjects, departments, err
}

// ViewAttendance returns, per student in the teacher's departments, the
// records for subjects in the teacher's assignment (whoever wrote them),
// newest first. Students with no matching records are omitted.
func (s *Service) ViewAttendance(ctx context.Context, teacherID string) (map[string]StudentRecords, error) {
	out := map[string]StudentRecords{}
	err := s.guard.View(ctx, func(doc *store.Document) error {
		assignment := doc.TeacherAssignments[teacherID]
		for _, student := range scopedStudents(doc, teacherID) {
			var filtered []store.Record
			for _, r := range doc.AttendanceRecords[student.ID] {
				if _, ok := assignment.Subjects[r.Subject]; ok {
					filtered = append(filtered, r)
				}
			}
			if len(filtered) == 0 {
				continue
			}
			sort.SliceStable(filtered, func(i, j int) bool {
				return filtered[i].Date > filtered[j].Date
			})
			out[student.ID] = StudentRecords{
				Name:       student.Name,
				Department: student.Department,
				Records:    filtered,
			}
		}
		return nil
	})
	return out, err
}

// Timetable returns the student's stored timetable, or an empty one.
func (s *Service) Timetable(ctx context.Context, studentID string) (store.Timetable, error) {
	tt := store.EmptyTimetable()
	err := s.guard.View(ctx, func(doc *store.Document) error {
		if stored, ok := doc.StudentTimetables[studentID]; ok {
			tt = stored
		}
		return nil
	})
	return tt, err
}

// Stats counts teachers, students and the assignment fan-out.
func (s *Service) Stats(ctx context.Context) (SystemStats, error) {
	var stats SystemStats
	err := s.guard.View(ctx, func(doc *store.Document) error {
		stats.Teachers = len(doc.Users.Teachers)
		stats.Students = len(doc.Users.Students)
		for _, a := range doc.TeacherAssignments {
			stats.Subjects += len(a.Subjects)
			for _, depts := range a.Subjects {
				stats.DepartmentAssignments += len(depts)
			}
		}
		return nil
	})
	return stats, err
}

// scopedStudents collects every roster student in any department the
// teacher is assigned to, in sorted department order for stable output.
func scopedStudents(doc *store.Document, teacherID string) []store.StudentSummary {
	assignment := doc.TeacherAssignments[teacherID]
	scope := map[string]bool{}
	for _, depts := range assignment.Subjects {
		for _, d := range depts {
			scope[d] = true
		}
	}
	departments := make([]string, 0, len(scope))
	for d := range scope {
		departments = append(departments, d)
	}
	sort.Strings(departments)

	var out []store.StudentSummary
	for _, dept := range departments {
		out = append(out, doc.StudentData[dept]...)
	}
	return out
}

// percentage rounds present/total to the nearest integer percent, ties to
// even, matching the original runtime's rounding. Zero total is 0, never an
// error or NaN.
func percentage(present, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.RoundToEven(float64(present) / float64(total) * 100))
}
