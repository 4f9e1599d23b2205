package integration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/demo"
)

// placeholder matches <author name> in paths and form values
var placeholder = regexp.MustCompile(`<([^>]+)>`)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	authorIDs    map[string]uint
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:        tc,
		authorIDs: make(map[string]uint),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.tc.Reset()
	})

	// Background steps
	sc.Step(`^the admin server is running$`, s.theAdminServerIsRunning)
	sc.Step(`^I am authenticated as "([^"]*)" with role "([^"]*)"$`, s.iAmAuthenticatedWithRole)
	sc.Step(`^I am authenticated as "([^"]*)"$`, s.iAmAuthenticated)
	sc.Step(`^I am not authenticated$`, s.iAmNotAuthenticated)
	sc.Step(`^I use the bearer token "([^"]*)"$`, s.iUseTheBearerToken)

	// Data steps
	sc.Step(`^an author "([^"]*)" exists$`, s.anAuthorExists)
	sc.Step(`^the author "([^"]*)" should exist$`, s.theAuthorShouldExist)
	sc.Step(`^the author "([^"]*)" should not exist$`, s.theAuthorShouldNotExist)
	sc.Step(`^(\d+) authors? should exist$`, s.authorsShouldExist)
	sc.Step(`^the book "([^"]*)" should have price ([0-9.]+) and be in print$`, s.theBookShouldHavePriceInPrint)

	// Request steps
	sc.Step(`^I open the admin page "([^"]*)"$`, s.iOpenTheAdminPage)
	sc.Step(`^I submit the form "([^"]*)" with:$`, s.iSubmitTheForm)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^I should be redirected to "([^"]*)"$`, s.iShouldBeRedirectedTo)
	sc.Step(`^the page should contain "([^"]*)"$`, s.thePageShouldContain)
	sc.Step(`^the page should not contain "([^"]*)"$`, s.thePageShouldNotContain)
}

// Background steps

func (s *StepsContext) theAdminServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) iAmAuthenticatedWithRole(subject, role string) error {
	token, err := s.tc.JWT.Issue(subject, []string{role}, time.Hour)
	if err != nil {
		return err
	}
	s.authToken = token
	return nil
}

func (s *StepsContext) iAmAuthenticated(subject string) error {
	token, err := s.tc.JWT.Issue(subject, nil, time.Hour)
	if err != nil {
		return err
	}
	s.authToken = token
	return nil
}

func (s *StepsContext) iAmNotAuthenticated() error {
	s.authToken = ""
	return nil
}

func (s *StepsContext) iUseTheBearerToken(token string) error {
	s.authToken = token
	return nil
}

// Data steps

func (s *StepsContext) anAuthorExists(name string) error {
	author := demo.Author{Name: name}
	if err := s.tc.DB.Create(&author).Error; err != nil {
		return err
	}
	s.authorIDs[name] = author.ID
	return nil
}

func (s *StepsContext) countAuthors(name string) (int64, error) {
	var count int64
	err := s.tc.DB.Model(&demo.Author{}).Where("name = ?", name).Count(&count).Error
	return count, err
}

func (s *StepsContext) theAuthorShouldExist(name string) error {
	count, err := s.countAuthors(name)
	if err != nil {
		return err
	}
	if count != 1 {
		return fmt.Errorf("expected author %q to exist once, found %d", name, count)
	}
	return nil
}

func (s *StepsContext) theAuthorShouldNotExist(name string) error {
	count, err := s.countAuthors(name)
	if err != nil {
		return err
	}
	if count != 0 {
		return fmt.Errorf("expected no author %q, found %d", name, count)
	}
	return nil
}

func (s *StepsContext) authorsShouldExist(expected int) error {
	var count int64
	if err := s.tc.DB.Model(&demo.Author{}).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(expected) {
		return fmt.Errorf("expected %d authors, found %d", expected, count)
	}
	return nil
}

func (s *StepsContext) theBookShouldHavePriceInPrint(title, price string) error {
	want, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return err
	}

	var book demo.Book
	if err := s.tc.DB.Where("title = ?", title).First(&book).Error; err != nil {
		return fmt.Errorf("book %q: %w", title, err)
	}
	if book.Price != want {
		return fmt.Errorf("expected price %v, got %v", want, book.Price)
	}
	if !book.InPrint {
		return fmt.Errorf("expected book %q to be in print", title)
	}
	return nil
}

// Request steps

// expand replaces <author name> with the id of a previously created author
func (s *StepsContext) expand(value string) (string, error) {
	var missing string
	expanded := placeholder.ReplaceAllStringFunc(value, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		id, ok := s.authorIDs[name]
		if !ok {
			var author demo.Author
			if err := s.tc.DB.Where("name = ?", name).First(&author).Error; err != nil {
				missing = name
				return m
			}
			id = author.ID
		}
		return strconv.FormatUint(uint64(id), 10)
	})
	if missing != "" {
		return "", fmt.Errorf("unknown author %q", missing)
	}
	return expanded, nil
}

func (s *StepsContext) do(req *http.Request) error {
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

func (s *StepsContext) iOpenTheAdminPage(path string) error {
	path, err := s.expand(path)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodGet, s.tc.ServerURL+path, nil)
	if err != nil {
		return err
	}
	return s.do(req)
}

func (s *StepsContext) iSubmitTheForm(path string, table *godog.Table) error {
	path, err := s.expand(path)
	if err != nil {
		return err
	}

	form := url.Values{}
	for _, row := range table.Rows {
		if len(row.Cells) != 2 {
			return fmt.Errorf("expected field and value columns, got %d cells", len(row.Cells))
		}
		value, err := s.expand(row.Cells[1].Value)
		if err != nil {
			return err
		}
		form.Set(row.Cells[0].Value, value)
	}

	req, err := http.NewRequest(http.MethodPost, s.tc.ServerURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expected int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) iShouldBeRedirectedTo(path string) error {
	path, err := s.expand(path)
	if err != nil {
		return err
	}
	if location := s.response.Header.Get("Location"); location != path {
		return fmt.Errorf("expected redirect to %q, got %q", path, location)
	}
	return nil
}

func (s *StepsContext) thePageShouldContain(text string) error {
	text, err := s.expand(text)
	if err != nil {
		return err
	}
	if !strings.Contains(string(s.responseBody), text) {
		return fmt.Errorf("expected page to contain %q, got: %s", text, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) thePageShouldNotContain(text string) error {
	if strings.Contains(string(s.responseBody), text) {
		return fmt.Errorf("expected page not to contain %q", text)
	}
	return nil
}
