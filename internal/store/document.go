package store

import "encoding/json"

// Document is the whole persisted database. Every request loads it, mutates
// it in memory and writes it back; there are no field-level transactions.
type Document struct {
	Users              Users                        `json:"users"`
	TeacherAssignments map[string]TeacherAssignment `json:"teacher_assignments"`
	StudentData        map[string][]StudentSummary  `json:"student_data"`
	AttendanceRecords  map[string][]Record          `json:"attendance_records"`
	StudentTimetables  map[string]Timetable         `json:"student_timetables"`
	TimetableEditMode  map[string]json.RawMessage   `json:"timetable_edit_mode"`
	AvailableDepts     []string                     `json:"available_departments"`
	AvailableSubjects  []string                     `json:"available_subjects"`
}

// Users indexes accounts by role.
type Users struct {
	Admin    []User `json:"admin"`
	Teachers []User `json:"teachers"`
	Students []User `json:"students"`
}

// User is an account entry. Email/JoinDate are set for teachers,
// Department for students.
type User struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Password   string `json:"password"`
	Email      string `json:"email,omitempty"`
	JoinDate   string `json:"join_date,omitempty"`
	Department string `json:"department,omitempty"`
}

// TeacherAssignment is the denormalized teacher projection. Subjects maps a
// subject name to the departments the teacher may teach it in.
type TeacherAssignment struct {
	Name     string              `json:"name"`
	Email    string              `json:"email"`
	JoinDate string              `json:"join_date"`
	Password string              `json:"password"`
	Subjects map[string][]string `json:"subjects"`
}

// StudentSummary is a roster entry. Its Department always equals the
// StudentData key it is stored under.
type StudentSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Password   string `json:"password"`
}

// Record is one attendance entry. At most one record exists per
// (student, date, subject, teacher) key; marking again overwrites in place.
type Record struct {
	Date      string `json:"date"`
	Subject   string `json:"subject"`
	Status    string `json:"status"`
	TeacherID string `json:"teacher_id"`
	Dept      string `json:"department,omitempty"`
}

// Timetable maps weekday name to that day's slots.
type Timetable map[string][]TimetableSlot

// TimetableSlot is one period in a student's day.
type TimetableSlot struct {
	Time    string `json:"time"`
	Subject string `json:"subject"`
	Teacher string `json:"teacher"`
}

// EmptyTimetable returns a timetable with every school day present and empty.
func EmptyTimetable() Timetable {
	return Timetable{
		"monday":    {},
		"tuesday":   {},
		"wednesday": {},
		"thursday":  {},
		"friday":    {},
		"saturday":  {},
	}
}
