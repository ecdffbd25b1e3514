// Package roster manages teacher and student entries, keeping the users
// index and the denormalized assignment/roster projections consistent.
// Every mutation runs as one load-mutate-save critical section.
package roster

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"classtrack/internal/store"
)

var (
	// ErrDuplicateID is returned when adding a teacher or student whose id
	// is already taken.
	ErrDuplicateID = errors.New("id already exists")
	// ErrNotFound is returned by lookups of missing teachers. Mutations of
	// missing targets deliberately no-op instead.
	ErrNotFound = errors.New("not found")
)

// TeacherFields carries the payload for add/update teacher.
type TeacherFields struct {
	TeacherID string              `json:"teacher_id"`
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	Password  string              `json:"password"`
	JoinDate  string              `json:"join_date"`
	Subjects  map[string][]string `json:"subjects"`
}

// StudentFields carries the payload for add/update student.
type StudentFields struct {
	StudentID  string `json:"student_id"`
	Name       string `json:"name"`
	Password   string `json:"password"`
	Department string `json:"department"`
}

// TeacherDetail is a teacher user joined with its assignment's subjects.
type TeacherDetail struct {
	UserID   string              `json:"user_id"`
	Name     string              `json:"name"`
	Email    string              `json:"email"`
	Password string              `json:"password"`
	JoinDate string              `json:"join_date"`
	Subjects map[string][]string `json:"subjects"`
}

// Service owns roster mutations against the shared document.
type Service struct {
	guard *store.Guard
}

// NewService creates a roster service.
func NewService(guard *store.Guard) *Service {
	return &Service{guard: guard}
}

// AddTeacher inserts a teacher user and its assignment projection.
func (s *Service) AddTeacher(ctx context.Context, f TeacherFields) error {
	return s.guard.Update(ctx, func(doc *store.Document) error {
		for _, t := range doc.Users.Teachers {
			if t.UserID == f.TeacherID {
				return ErrDuplicateID
			}
		}
		doc.Users.Teachers = append(doc.Users.Teachers, store.User{
			UserID:   f.TeacherID,
			Name:     f.Name,
			Email:    f.Email,
			Password: f.Password,
			JoinDate: f.JoinDate,
		})
		if doc.TeacherAssignments == nil {
			doc.TeacherAssignments = map[string]store.TeacherAssignment{}
		}
		doc.TeacherAssignments[f.TeacherID] = store.TeacherAssignment{
			Name:     f.Name,
			Email:    f.Email,
			JoinDate: f.JoinDate,
			Password: f.Password,
			Subjects: f.Subjects,
		}
		return nil
	})
}

// ListTeachers returns all teachers joined with their subjects, ordered by
// the numeric suffix of the id; malformed ids sort last.
func (s *Service) ListTeachers(ctx context.Context) ([]TeacherDetail, error) {
	var out []TeacherDetail
	err := s.guard.View(ctx, func(doc *store.Document) error {
		for _, t := range doc.Users.Teachers {
			out = append(out, teacherDetail(doc, t))
		}
		sort.SliceStable(out, func(i, j int) bool {
			return teacherSortKey(out[i].UserID) < teacherSortKey(out[j].UserID)
		})
		return nil
	})
	return out, err
}

// GetTeacher returns one teacher's detail.
func (s *Service) GetTeacher(ctx context.Context, teacherID string) (TeacherDetail, error) {
	var out TeacherDetail
	err := s.guard.View(ctx, func(doc *store.Document) error {
		for _, t := range doc.Users.Teachers {
			if t.UserID == teacherID {
				out = teacherDetail(doc, t)
				return nil
			}
		}
		return ErrNotFound
	})
	return out, err
}

// UpdateTeacher rewrites the teacher user and assignment in place. The
// subjects mapping is replaced wholesale, not merged. A missing teacher is a
// silent no-op, matching the original behavior.
func (s *Service) UpdateTeacher(ctx context.Context, teacherID string, f TeacherFields) error {
	return s.guard.Update(ctx, func(doc *store.Document) error {
		for i, t := range doc.Users.Teachers {
			if t.UserID == teacherID {
				doc.Users.Teachers[i].Name = f.Name
				doc.Users.Teachers[i].Email = f.Email
				doc.Users.Teachers[i].Password = f.Password
				doc.Users.Teachers[i].JoinDate = f.JoinDate
				break
			}
		}
		if a, ok := doc.TeacherAssignments[teacherID]; ok {
			a.Name = f.Name
			a.Email = f.Email
			a.Password = f.Password
			a.JoinDate = f.JoinDate
			a.Subjects = f.Subjects
			doc.TeacherAssignments[teacherID] = a
		}
		return nil
	})
}

// DeleteTeacher removes the user and assignment entries. Attendance records
// already written by the teacher keep their now-orphaned teacher_id.
func (s *Service) DeleteTeacher(ctx context.Context, teacherID string) error {
	return s.guard.Update(ctx, func(doc *store.Document) error {
		kept := doc.Users.Teachers[:0]
		for _, t := range doc.Users.Teachers {
			if t.UserID != teacherID {
				kept = append(kept, t)
			}
		}
		doc.Users.Teachers = kept
		delete(doc.TeacherAssignments, teacherID)
		return nil
	})
}

// AddStudent inserts a student user, appends to its department's roster
// bucket and initializes empty attendance records and timetable. The
// initialization is idempotent: existing records are never clobbered.
func (s *Service) AddStudent(ctx context.Context, f StudentFields) error {
	return s.guard.Update(ctx, func(doc *store.Document) error {
		for _, st := range doc.Users.Students {
			if st.UserID == f.StudentID {
				return ErrDuplicateID
			}
		}
		doc.Users.Students = append(doc.Users.Students, store.User{
			UserID:     f.StudentID,
			Name:       f.Name,
			Password:   f.Password,
			Department: f.Department,
		})
		if doc.StudentData == nil {
			doc.StudentData = map[string][]store.StudentSummary{}
		}
		doc.StudentData[f.Department] = append(doc.StudentData[f.Department], store.StudentSummary{
			ID:         f.StudentID,
			Name:       f.Name,
			Department: f.Department,
			Password:   f.Password,
		})
		if doc.AttendanceRecords == nil {
			doc.AttendanceRecords = map[string][]store.Record{}
		}
		if _, ok := doc.AttendanceRecords[f.StudentID]; !ok {
			doc.AttendanceRecords[f.StudentID] = []store.Record{}
		}
		if doc.StudentTimetables == nil {
			doc.StudentTimetables = map[string]store.Timetable{}
		}
		if _, ok := doc.StudentTimetables[f.StudentID]; !ok {
			doc.StudentTimetables[f.StudentID] = store.EmptyTimetable()
		}
		return nil
	})
}

// UpdateStudent rewrites the user entry and relocates the roster summary to
// the target department. The student ends up in exactly one bucket; if no
// old bucket contained them the relocation is just an insert.
func (s *Service) UpdateStudent(ctx context.Context, studentID string, f StudentFields) error {
	return s.guard.Update(ctx, func(doc *store.Document) error {
		for i, st := range doc.Users.Students {
			if st.UserID == studentID {
				doc.Users.Students[i].Name = f.Name
				doc.Users.Students[i].Password = f.Password
				doc.Users.Students[i].Department = f.Department
				break
			}
		}
	remove:
		for dept, students := range doc.StudentData {
			for i, st := range students {
				if st.ID == studentID {
					doc.StudentData[dept] = append(students[:i], students[i+1:]...)
					break remove
				}
			}
		}
		if doc.StudentData == nil {
			doc.StudentData = map[string][]store.StudentSummary{}
		}
		doc.StudentData[f.Department] = append(doc.StudentData[f.Department], store.StudentSummary{
			ID:         studentID,
			Name:       f.Name,
			Department: f.Department,
			Password:   f.Password,
		})
		return nil
	})
}

// DeleteStudent removes the user, the roster summary from whichever bucket
// holds it, and the student's records, timetable and edit-mode marker.
func (s *Service) DeleteStudent(ctx context.Context, studentID string) error {
	return s.guard.Update(ctx, func(doc *store.Document) error {
		kept := doc.Users.Students[:0]
		for _, st := range doc.Users.Students {
			if st.UserID != studentID {
				kept = append(kept, st)
			}
		}
		doc.Users.Students = kept
		for dept, students := range doc.StudentData {
			filtered := students[:0]
			for _, st := range students {
				if st.ID != studentID {
					filtered = append(filtered, st)
				}
			}
			doc.StudentData[dept] = filtered
		}
		delete(doc.AttendanceRecords, studentID)
		delete(doc.StudentTimetables, studentID)
		delete(doc.TimetableEditMode, studentID)
		return nil
	})
}

// AvailableData returns the department and subject catalogs: live roster
// departments and assignment subjects unioned with the predefined lists.
func (s *Service) AvailableData(ctx context.Context) (departments, subjects []string, err error) {
	err = s.guard.View(ctx, func(doc *store.Document) error {
		deptSet := map[string]bool{}
		for dept := range doc.StudentData {
			deptSet[dept] = true
		}
		for _, dept := range doc.AvailableDepts {
			deptSet[dept] = true
		}
		subjectSet := map[string]bool{}
		for _, a := range doc.TeacherAssignments {
			for subject := range a.Subjects {
				subjectSet[subject] = true
			}
		}
		for _, subject := range doc.AvailableSubjects {
			subjectSet[subject] = true
		}
		departments = sortedKeys(deptSet)
		subjects = sortedKeys(subjectSet)
		return nil
	})
	return departments, subjects, err
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func teacherDetail(doc *store.Document, t store.User) TeacherDetail {
	d := TeacherDetail{
		UserID:   t.UserID,
		Name:     t.Name,
		Email:    t.Email,
		Password: t.Password,
		JoinDate: t.JoinDate,
		Subjects: map[string][]string{},
	}
	if a, ok := doc.TeacherAssignments[t.UserID]; ok && a.Subjects != nil {
		d.Subjects = a.Subjects
	}
	return d
}

// teacherSortKey orders TCH_<n> ids numerically; anything else sorts last.
func teacherSortKey(id string) int {
	suffix, ok := strings.CutPrefix(id, "TCH_")
	if !ok {
		return int(^uint(0) >> 1)
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}
