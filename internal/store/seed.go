package store

import "encoding/json"

// Seed returns the default document written on first run. The literal values
// are load-bearing: compatibility tests and the demo credentials depend on
// them.
func Seed() *Document {
	return &Document{
		Users: Users{
			Admin: []User{
				{UserID: "ADMIN_001", Name: "System Admin", Password: "admin123"},
			},
			Teachers: []User{
				{
					UserID:   "TCH_001",
					Name:     "John Teacher",
					Email:    "john.teacher@school.edu",
					Password: "teacher123",
					JoinDate: "2023-08-15",
				},
			},
			Students: []User{
				{UserID: "STU_001", Name: "Alice Student", Password: "student123", Department: "Class 10A"},
			},
		},
		TeacherAssignments: map[string]TeacherAssignment{
			"TCH_001": {
				Name:     "John Teacher",
				Email:    "john.teacher@school.edu",
				JoinDate: "2023-08-15",
				Password: "teacher123",
				Subjects: map[string][]string{
					"Mathematics": {"Class 10A", "Class 11A"},
					"Science":     {"Class 10A"},
				},
			},
		},
		StudentData: map[string][]StudentSummary{
			"Class 10A": {
				{ID: "STU_001", Name: "Alice Student", Department: "Class 10A", Password: "student123"},
			},
		},
		AttendanceRecords: map[string][]Record{
			"STU_001": {
				{Date: "2024-01-15", Subject: "Mathematics", Status: "present", TeacherID: "TCH_001"},
				{Date: "2024-01-15", Subject: "Science", Status: "present", TeacherID: "TCH_001"},
			},
		},
		StudentTimetables: map[string]Timetable{
			"STU_001": {
				"monday": {
					{Time: "9:00-10:00", Subject: "Mathematics", Teacher: "TCH_001"},
					{Time: "10:00-11:00", Subject: "Science", Teacher: "TCH_001"},
				},
				"tuesday": {
					{Time: "9:00-10:00", Subject: "Mathematics", Teacher: "TCH_001"},
				},
				"wednesday": {
					{Time: "9:00-10:00", Subject: "Science", Teacher: "TCH_001"},
				},
				"thursday": {
					{Time: "9:00-10:00", Subject: "Mathematics", Teacher: "TCH_001"},
				},
				"friday": {
					{Time: "9:00-10:00", Subject: "Science", Teacher: "TCH_001"},
				},
				"saturday": {},
			},
		},
		TimetableEditMode: map[string]json.RawMessage{},
		AvailableDepts:    []string{"Class 10A", "Class 11A", "Class 12A", "Class 10B", "Class 11B"},
		AvailableSubjects: []string{"Mathematics", "Science", "English", "History", "Physics", "Chemistry", "Biology", "Computer Science"},
	}
}
