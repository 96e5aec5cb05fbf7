// Package inmemdb keeps every table in memory behind a single RWMutex.
// It enforces the same uniqueness and cascade rules as the PostgreSQL schema.
package inmemdb

import (
	"sort"
	"sync"

	"github.com/volatiletech/null/v8"

	"github.com/liceo-app/liceo/core/attendance"
	"github.com/liceo-app/liceo/core/course"
	"github.com/liceo-app/liceo/core/grade"
	"github.com/liceo-app/liceo/core/observation"
	"github.com/liceo-app/liceo/core/student"
	"github.com/liceo-app/liceo/core/subject"
	"github.com/liceo-app/liceo/core/teacher"
	"github.com/liceo-app/liceo/core/user"
)

type link struct {
	ownerID   int
	subjectID int
}

type DB struct {
	mutex sync.RWMutex
	seq   map[string]int

	subjects        map[int]subject.Subject
	teachers        map[int]teacher.Teacher
	teacherSubjects map[link]struct{}
	courses         map[int]course.Course
	courseSubjects  map[link]struct{}
	students        map[int]student.Student
	grades          map[int]grade.Grade
	attendance      map[int]attendance.Attendance
	observations    map[int]observation.Observation
	users           map[int]user.User
}

func Open() *DB {
	db := &DB{}
	db.reset()
	return db
}

func (db *DB) reset() {
	db.seq = make(map[string]int)
	db.subjects = make(map[int]subject.Subject)
	db.teachers = make(map[int]teacher.Teacher)
	db.teacherSubjects = make(map[link]struct{})
	db.courses = make(map[int]course.Course)
	db.courseSubjects = make(map[link]struct{})
	db.students = make(map[int]student.Student)
	db.grades = make(map[int]grade.Grade)
	db.attendance = make(map[int]attendance.Attendance)
	db.observations = make(map[int]observation.Observation)
	db.users = make(map[int]user.User)
}

// Reset empties every table and restarts the id sequences.
func (db *DB) Reset() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.reset()
}

func (db *DB) Close() error { return nil }

func (db *DB) nextID(table string) int {
	db.seq[table]++
	return db.seq[table]
}

func sortedIDs[T any](table map[int]T) []int {
	ids := make([]int, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// linkedSubjects returns the subjects linked to ownerID, by ascending id.
func (db *DB) linkedSubjects(links map[link]struct{}, ownerID int) []subject.Subject {
	subjects := make([]subject.Subject, 0)
	for l := range links {
		if l.ownerID != ownerID {
			continue
		}
		if s, ok := db.subjects[l.subjectID]; ok {
			subjects = append(subjects, s)
		}
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].ID < subjects[j].ID })
	return subjects
}

// The cascade helpers mirror the FK actions of the SQL schema. Callers hold the write lock.

func (db *DB) deleteSubject(id int) {
	delete(db.subjects, id)
	for l := range db.teacherSubjects {
		if l.subjectID == id {
			delete(db.teacherSubjects, l)
		}
	}
	for l := range db.courseSubjects {
		if l.subjectID == id {
			delete(db.courseSubjects, l)
		}
	}
	for gid, g := range db.grades {
		if g.SubjectID == id {
			delete(db.grades, gid)
		}
	}
}

func (db *DB) deleteTeacher(id int) {
	delete(db.teachers, id)
	for l := range db.teacherSubjects {
		if l.ownerID == id {
			delete(db.teacherSubjects, l)
		}
	}
	for cid, c := range db.courses {
		if c.HeadTeacherID.Valid && c.HeadTeacherID.Int == id {
			c.HeadTeacherID = null.Int{}
			db.courses[cid] = c
		}
	}
	for gid, g := range db.grades {
		if g.TeacherID == id {
			delete(db.grades, gid)
		}
	}
	for oid, o := range db.observations {
		if o.TeacherID == id {
			delete(db.observations, oid)
		}
	}
	for uid, u := range db.users {
		if u.TeacherID.Valid && u.TeacherID.Int == id {
			u.TeacherID = null.Int{}
			db.users[uid] = u
		}
	}
}

func (db *DB) deleteCourse(id int) {
	delete(db.courses, id)
	for l := range db.courseSubjects {
		if l.ownerID == id {
			delete(db.courseSubjects, l)
		}
	}
	for sid, s := range db.students {
		if s.CourseID.Valid && s.CourseID.Int == id {
			s.CourseID = null.Int{}
			db.students[sid] = s
		}
	}
}

func (db *DB) deleteStudent(id int) {
	delete(db.students, id)
	for gid, g := range db.grades {
		if g.StudentID == id {
			delete(db.grades, gid)
		}
	}
	for aid, a := range db.attendance {
		if a.StudentID == id {
			delete(db.attendance, aid)
		}
	}
	for oid, o := range db.observations {
		if o.StudentID == id {
			delete(db.observations, oid)
		}
	}
	for uid, u := range db.users {
		if u.StudentID.Valid && u.StudentID.Int == id {
			u.StudentID = null.Int{}
			db.users[uid] = u
		}
	}
}

func (db *DB) teacherRef(id int) *teacher.Ref {
	if t, ok := db.teachers[id]; ok {
		ref := t.Ref()
		return &ref
	}
	return nil
}

func (db *DB) studentRef(id int) *student.Ref {
	if s, ok := db.students[id]; ok {
		ref := s.Ref()
		return &ref
	}
	return nil
}
