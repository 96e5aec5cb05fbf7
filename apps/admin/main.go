package main

import (
	"log"
	"os"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/course"
	"github.com/liceo-app/liceo/core/student"
	"github.com/liceo-app/liceo/core/subject"
	"github.com/liceo-app/liceo/core/teacher"
	"github.com/liceo-app/liceo/core/user"
	"github.com/liceo-app/liceo/storage/database"
	"github.com/liceo-app/liceo/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()

	// set up services
	validate := core.NewValidator()
	subjects := subject.NewService(sqlxrepos.NewSubjectRepository(db), validate)
	teachers := teacher.NewService(sqlxrepos.NewTeacherRepository(db), subjects, validate)
	courses := course.NewService(sqlxrepos.NewCourseRepository(db), teachers, subjects, validate)
	students := student.NewService(sqlxrepos.NewStudentRepository(db), courses, validate)

	// start CLI
	cli := commandLine{
		db:     db.DB,
		usrSvc: user.NewService(sqlxrepos.NewUserRepository(db), teachers, students, validate),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
