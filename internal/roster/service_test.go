package roster

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"classtrack/internal/store"
)

func newService(t *testing.T) (*Service, *store.Guard) {
	t.Helper()
	guard := store.NewGuard(store.NewFileStore(filepath.Join(t.TempDir(), "database.json")))
	return NewService(guard), guard
}

func snapshot(t *testing.T, guard *store.Guard) *store.Document {
	t.Helper()
	var doc *store.Document
	if err := guard.View(context.Background(), func(d *store.Document) error {
		doc = d
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
	return doc
}

func TestAddTeacherDuplicate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	err := svc.AddTeacher(ctx, TeacherFields{
		TeacherID: "TCH_001", Name: "Impostor", Email: "x@school.edu",
		Password: "pw", JoinDate: "2024-01-01",
		Subjects: map[string][]string{"History": {"Class 12A"}},
	})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestAddTeacherCreatesBothProjections(t *testing.T) {
	svc, guard := newService(t)
	ctx := context.Background()

	if err := svc.AddTeacher(ctx, TeacherFields{
		TeacherID: "TCH_002", Name: "Mary Major", Email: "mary@school.edu",
		Password: "pw2", JoinDate: "2024-02-01",
		Subjects: map[string][]string{"Physics": {"Class 12A"}},
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	doc := snapshot(t, guard)
	if len(doc.Users.Teachers) != 2 {
		t.Fatalf("expected 2 teachers, got %d", len(doc.Users.Teachers))
	}
	a, ok := doc.TeacherAssignments["TCH_002"]
	if !ok {
		t.Fatal("assignment projection missing")
	}
	if len(a.Subjects["Physics"]) != 1 || a.Subjects["Physics"][0] != "Class 12A" {
		t.Fatalf("unexpected subjects: %v", a.Subjects)
	}
}

func TestListTeachersNumericOrder(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for _, f := range []TeacherFields{
		{TeacherID: "TCH_010", Name: "Ten"},
		{TeacherID: "STAFF_X", Name: "Odd One"},
		{TeacherID: "TCH_002", Name: "Two"},
	} {
		if err := svc.AddTeacher(ctx, f); err != nil {
			t.Fatalf("add %s: %v", f.TeacherID, err)
		}
	}

	teachers, err := svc.ListTeachers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var ids []string
	for _, d := range teachers {
		ids = append(ids, d.UserID)
	}
	want := []string{"TCH_001", "TCH_002", "TCH_010", "STAFF_X"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("expected order %v, got %v", want, ids)
	}
}

func TestUpdateTeacherReplacesSubjects(t *testing.T) {
	svc, guard := newService(t)
	ctx := context.Background()

	if err := svc.UpdateTeacher(ctx, "TCH_001", TeacherFields{
		Name: "John T.", Email: "john@school.edu", Password: "newpw",
		JoinDate: "2023-08-15",
		Subjects: map[string][]string{"English": {"Class 10B"}},
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	doc := snapshot(t, guard)
	if doc.Users.Teachers[0].Name != "John T." || doc.Users.Teachers[0].Password != "newpw" {
		t.Fatalf("user entry not updated: %+v", doc.Users.Teachers[0])
	}
	a := doc.TeacherAssignments["TCH_001"]
	if len(a.Subjects) != 1 || len(a.Subjects["English"]) != 1 {
		t.Fatalf("subjects must be replaced wholesale, got %v", a.Subjects)
	}
}

func TestUpdateMissingTeacherIsNoop(t *testing.T) {
	svc, guard := newService(t)
	before := snapshot(t, guard)

	if err := svc.UpdateTeacher(context.Background(), "TCH_404", TeacherFields{Name: "Ghost"}); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	after := snapshot(t, guard)
	if !reflect.DeepEqual(before.Users.Teachers, after.Users.Teachers) {
		t.Fatalf("teacher list changed: %+v", after.Users.Teachers)
	}
}

func TestDeleteTeacherKeepsOrphanedRecords(t *testing.T) {
	svc, guard := newService(t)
	ctx := context.Background()

	if err := svc.DeleteTeacher(ctx, "TCH_001"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	doc := snapshot(t, guard)
	if len(doc.Users.Teachers) != 0 {
		t.Fatalf("teacher not removed: %+v", doc.Users.Teachers)
	}
	if _, ok := doc.TeacherAssignments["TCH_001"]; ok {
		t.Fatal("assignment not removed")
	}
	// Historical attendance keeps the orphaned teacher id.
	records := doc.AttendanceRecords["STU_001"]
	if len(records) != 2 || records[0].TeacherID != "TCH_001" {
		t.Fatalf("historical records must survive: %+v", records)
	}
}

func TestGetTeacherNotFound(t *testing.T) {
	svc, _ := newService(t)
	if _, err := svc.GetTeacher(context.Background(), "TCH_404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddStudentDuplicateLeavesStateUntouched(t *testing.T) {
	svc, guard := newService(t)
	before := snapshot(t, guard)

	err := svc.AddStudent(context.Background(), StudentFields{
		StudentID: "STU_001", Name: "Clone", Password: "pw", Department: "Class 11A",
	})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	after := snapshot(t, guard)
	if !reflect.DeepEqual(before, after) {
		t.Fatal("rejected add must not change any state")
	}
}

func TestAddStudentInitializesIdempotently(t *testing.T) {
	svc, guard := newService(t)
	ctx := context.Background()

	if err := svc.AddStudent(ctx, StudentFields{
		StudentID: "STU_002", Name: "Bob", Password: "pw", Department: "Class 11A",
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	doc := snapshot(t, guard)
	bucket := doc.StudentData["Class 11A"]
	if len(bucket) != 1 || bucket[0].ID != "STU_002" || bucket[0].Department != "Class 11A" {
		t.Fatalf("unexpected bucket: %+v", bucket)
	}
	if records, ok := doc.AttendanceRecords["STU_002"]; !ok || len(records) != 0 {
		t.Fatalf("expected empty record list, got %v (ok=%v)", records, ok)
	}
	if _, ok := doc.StudentTimetables["STU_002"]; !ok {
		t.Fatal("expected empty timetable")
	}
}

func TestUpdateStudentMovesExactlyOneBucketEntry(t *testing.T) {
	svc, guard := newService(t)
	ctx := context.Background()

	if err := svc.UpdateStudent(ctx, "STU_001", StudentFields{
		Name: "Alice Student", Password: "student123", Department: "Class 11A",
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	doc := snapshot(t, guard)
	appearances := 0
	for _, students := range doc.StudentData {
		for _, st := range students {
			if st.ID == "STU_001" {
				appearances++
				if st.Department != "Class 11A" {
					t.Fatalf("department field disagrees with bucket: %+v", st)
				}
			}
		}
	}
	if appearances != 1 {
		t.Fatalf("student must appear in exactly one bucket, found %d", appearances)
	}
	if doc.Users.Students[0].Department != "Class 11A" {
		t.Fatalf("user entry not relocated: %+v", doc.Users.Students[0])
	}
}

func TestUpdateUnknownStudentStillInsertsBucketEntry(t *testing.T) {
	svc, guard := newService(t)

	if err := svc.UpdateStudent(context.Background(), "STU_999", StudentFields{
		Name: "Drifter", Password: "pw", Department: "Class 12A",
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	doc := snapshot(t, guard)
	bucket := doc.StudentData["Class 12A"]
	if len(bucket) != 1 || bucket[0].ID != "STU_999" {
		t.Fatalf("expected bucket insert for unknown student, got %+v", bucket)
	}
}

func TestDeleteStudentCascades(t *testing.T) {
	svc, guard := newService(t)
	ctx := context.Background()

	if err := svc.DeleteStudent(ctx, "STU_001"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	doc := snapshot(t, guard)
	if len(doc.Users.Students) != 0 {
		t.Fatalf("user entry remains: %+v", doc.Users.Students)
	}
	for dept, students := range doc.StudentData {
		for _, st := range students {
			if st.ID == "STU_001" {
				t.Fatalf("roster entry remains in %s", dept)
			}
		}
	}
	if _, ok := doc.AttendanceRecords["STU_001"]; ok {
		t.Fatal("attendance records remain")
	}
	if _, ok := doc.StudentTimetables["STU_001"]; ok {
		t.Fatal("timetable remains")
	}
}

func TestAvailableDataUnionsLiveAndCatalogValues(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if err := svc.AddStudent(ctx, StudentFields{
		StudentID: "STU_002", Name: "Bob", Password: "pw", Department: "Class 9Z",
	}); err != nil {
		t.Fatalf("add student: %v", err)
	}
	if err := svc.AddTeacher(ctx, TeacherFields{
		TeacherID: "TCH_002", Name: "Mary",
		Subjects: map[string][]string{"Astronomy": {"Class 9Z"}},
	}); err != nil {
		t.Fatalf("add teacher: %v", err)
	}

	departments, subjects, err := svc.AvailableData(ctx)
	if err != nil {
		t.Fatalf("available data: %v", err)
	}
	if !contains(departments, "Class 9Z") || !contains(departments, "Class 12A") {
		t.Fatalf("departments missing live or catalog value: %v", departments)
	}
	if !contains(subjects, "Astronomy") || !contains(subjects, "History") {
		t.Fatalf("subjects missing live or catalog value: %v", subjects)
	}
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
