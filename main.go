package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"librarydesk/config"
	"librarydesk/library"
	"librarydesk/logging"
	"librarydesk/mailer"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	lib, err := library.Open(cfg.Storage.DataDir, library.WithLogger(log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening library data: %v\n", err)
		os.Exit(1)
	}
	defer lib.Close()

	auth := library.NewAuthenticator(lib, library.AdminCredentials{
		Username: cfg.Admin.Username,
		Password: cfg.Admin.Password,
	}, mailer.New(cfg.SMTP, log))

	fmt.Println("Library Management System")
	scanner := bufio.NewScanner(os.Stdin)
	sess := library.NewSession()

	for {
		switch {
		case !sess.LoggedIn():
			if !loginMenu(scanner, auth, lib, sess) {
				return
			}
		case sess.Role == library.RoleAdmin:
			if !adminMenu(scanner, auth, lib, sess) {
				return
			}
		default:
			if !studentMenu(scanner, auth, lib, sess) {
				return
			}
		}
	}
}

// loginMenu runs one round of the login panel. It returns false when the
// user asks to exit.
func loginMenu(sc *bufio.Scanner, auth *library.Authenticator, lib *library.Library, sess *library.Session) bool {
	fmt.Println("\nLogin: admin | student | code | exit")
	cmd, ok := prompt(sc, "> ")
	if !ok {
		return false
	}

	switch cmd {
	case "admin":
		handleAdminLogin(sc, auth, sess)
	case "student":
		handleStudentLogin(sc, auth, sess)
	case "code":
		handleCodeLogin(sc, auth, sess)
	case "exit":
		fmt.Println("Goodbye!")
		return false
	case "":
	default:
		fmt.Println("Unknown choice. Use: admin, student, code or exit.")
	}

	if sess.LoggedIn() && sess.Role == library.RoleStudent {
		if s, err := lib.Student(sess.StudentID); err == nil {
			fmt.Printf("Logged in as %s (%s)\n", s.Name, s.EnrollmentNo)
		}
	}
	return true
}

func handleAdminLogin(sc *bufio.Scanner, auth *library.Authenticator, sess *library.Session) {
	username, ok := prompt(sc, "Username: ")
	if !ok {
		return
	}
	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}
	if err := auth.LoginAdmin(sess, username, password); err != nil {
		fmt.Printf("Login failed: %v\n", err)
		return
	}
	fmt.Println("Logged in as admin.")
}

func handleStudentLogin(sc *bufio.Scanner, auth *library.Authenticator, sess *library.Session) {
	enroll, ok := prompt(sc, "Enrollment No: ")
	if !ok {
		return
	}
	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}
	if err := auth.LoginStudent(sess, enroll, password); err != nil {
		fmt.Printf("Login failed: %v\n", err)
	}
}

func handleCodeLogin(sc *bufio.Scanner, auth *library.Authenticator, sess *library.Session) {
	enroll, ok := prompt(sc, "Enrollment No: ")
	if !ok {
		return
	}
	email, ok := prompt(sc, "Registered Email: ")
	if !ok {
		return
	}
	if err := auth.BeginCodeLogin(context.Background(), sess, enroll, email); err != nil {
		fmt.Printf("Could not send code: %v\n", err)
		return
	}
	fmt.Println("A login code was sent to your email.")

	code, ok := prompt(sc, "Enter code: ")
	if !ok {
		return
	}
	if err := auth.VerifyCode(sess, code); err != nil {
		fmt.Printf("Login failed: %v\n", err)
	}
}

// adminMenu handles one admin command. It returns false when the user asks
// to exit.
func adminMenu(sc *bufio.Scanner, auth *library.Authenticator, lib *library.Library, sess *library.Session) bool {
	fmt.Println("\nAdmin: add student | list students | add book | list books | search books | issue | return | records | logout | exit")
	cmd, ok := prompt(sc, "> ")
	if !ok {
		return false
	}

	switch cmd {
	case "add student":
		handleAddStudent(sc, lib)
	case "list students":
		handleListStudents(lib)
	case "add book":
		handleAddBook(sc, lib)
	case "list books":
		printBooks(lib.Books())
	case "search books":
		handleSearchBooks(sc, lib)
	case "issue":
		handleIssue(sc, lib)
	case "return":
		handleReturn(sc, lib)
	case "records":
		printRecords(lib.Records())
	case "logout":
		auth.Logout(sess)
		fmt.Println("Logged out.")
	case "exit":
		fmt.Println("Goodbye!")
		return false
	case "":
	default:
		fmt.Println("Unknown command. Type one of the commands listed above.")
	}
	return true
}

// studentMenu handles one student command. It returns false when the user
// asks to exit.
func studentMenu(sc *bufio.Scanner, auth *library.Authenticator, lib *library.Library, sess *library.Session) bool {
	fmt.Println("\nStudent: my books | search books | logout | exit")
	cmd, ok := prompt(sc, "> ")
	if !ok {
		return false
	}

	switch cmd {
	case "my books":
		printRecords(lib.StudentRecords(sess.StudentID))
	case "search books":
		handleSearchBooks(sc, lib)
	case "logout":
		auth.Logout(sess)
		fmt.Println("Logged out.")
	case "exit":
		fmt.Println("Goodbye!")
		return false
	case "":
	default:
		fmt.Println("Unknown command. Type one of the commands listed above.")
	}
	return true
}

func handleAddStudent(sc *bufio.Scanner, lib *library.Library) {
	name, ok := prompt(sc, "Name: ")
	if !ok {
		return
	}
	enroll, ok := prompt(sc, "Enrollment No: ")
	if !ok {
		return
	}
	course, ok := prompt(sc, "Course: ")
	if !ok {
		return
	}
	email, ok := prompt(sc, "Email: ")
	if !ok {
		return
	}
	password, err := readPassword("Set Password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}

	id, err := lib.AddStudent(name, enroll, course, email, password)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Student added (ID: %d)\n", id)
}

func handleListStudents(lib *library.Library) {
	students := lib.Students()
	if len(students) == 0 {
		fmt.Println("No students yet.")
		return
	}
	rows := make([][]string, 0, len(students))
	for _, s := range students {
		// Passwords are withheld from every view.
		rows = append(rows, []string{
			strconv.Itoa(s.ID), s.Name, s.EnrollmentNo, s.Course, s.Email,
		})
	}
	fmt.Println(renderTable([]string{"ID", "Name", "Enrollment", "Course", "Email"}, rows))
}

func handleAddBook(sc *bufio.Scanner, lib *library.Library) {
	title, ok := prompt(sc, "Title: ")
	if !ok {
		return
	}
	author, ok := prompt(sc, "Author: ")
	if !ok {
		return
	}
	copies, ok := promptInt(sc, "Total Copies: ")
	if !ok {
		return
	}
	if copies < 1 {
		fmt.Println("Total copies must be at least 1.")
		return
	}

	id, err := lib.AddBook(title, author, copies)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Book added (ID: %d)\n", id)
}

func handleSearchBooks(sc *bufio.Scanner, lib *library.Library) {
	query, ok := prompt(sc, "Search Title/Author (empty for all): ")
	if !ok {
		return
	}
	choice, ok := prompt(sc, "Filter [all|available|issued]: ")
	if !ok {
		return
	}

	filter := library.FilterAll
	switch choice {
	case "available":
		filter = library.FilterAvailableOnly
	case "issued":
		filter = library.FilterIssuedOnly
	case "all", "":
	default:
		fmt.Println("Unknown filter, showing all books.")
	}

	printBooks(lib.SearchBooks(query, filter))
}

func handleIssue(sc *bufio.Scanner, lib *library.Library) {
	studentID, ok := promptInt(sc, "Student ID: ")
	if !ok {
		return
	}
	bookID, ok := promptInt(sc, "Book ID: ")
	if !ok {
		return
	}

	recordID, err := lib.Issue(studentID, bookID)
	if err != nil {
		fmt.Printf("Error issuing book: %v\n", err)
		return
	}
	fmt.Printf("Issued (Record ID: %d)\n", recordID)
}

func handleReturn(sc *bufio.Scanner, lib *library.Library) {
	recordID, ok := promptInt(sc, "Issue Record ID: ")
	if !ok {
		return
	}

	fine, err := lib.Return(recordID)
	if err != nil {
		fmt.Printf("Error returning book: %v\n", err)
		return
	}
	fmt.Printf("Returned. Fine: %d\n", fine)
}

func printBooks(books []library.Book) {
	if len(books) == 0 {
		fmt.Println("No books to show.")
		return
	}
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, []string{
			strconv.Itoa(b.ID), b.Title, b.Author,
			strconv.Itoa(b.TotalCopies), strconv.Itoa(b.AvailableCopies),
		})
	}
	fmt.Println(renderTable([]string{"ID", "Title", "Author", "Total", "Available"}, rows))
}

func printRecords(records []library.RecordRow) {
	if len(records) == 0 {
		fmt.Println("No records yet.")
		return
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.RecordID),
			strconv.Itoa(r.StudentID), r.StudentName,
			strconv.Itoa(r.BookID), r.BookTitle,
			r.IssueDate, r.ReturnDate,
			strconv.Itoa(r.Fine),
		})
	}
	fmt.Println(renderTable(
		[]string{"Record", "Student ID", "Student", "Book ID", "Title", "Issued", "Returned", "Fine"},
		rows))
}

// renderTable renders rows with a rounded style on a terminal and a plain
// style when output is redirected.
func renderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	if isatty.IsTerminal(os.Stdout.Fd()) {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}

func prompt(sc *bufio.Scanner, label string) (string, bool) {
	fmt.Print(label)
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}

func promptInt(sc *bufio.Scanner, label string) (int, bool) {
	raw, ok := prompt(sc, label)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Printf("Invalid number: %s\n", raw)
		return 0, false
	}
	return n, true
}

// readPassword reads a password with terminal echo disabled.
func readPassword(label string) (string, error) {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(raw)), nil
}
