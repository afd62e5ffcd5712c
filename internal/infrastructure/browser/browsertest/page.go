// Package browsertest provides an in-memory page backed by goquery for
// exercising flows without a browser. Selectors are plain CSS plus the
// :has-text("...") pseudo-class, matched as a case-insensitive substring.
package browsertest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/lite-lake/tenten-ddns/internal/domain"
	"github.com/lite-lake/tenten-ddns/internal/domain/contract"
)

type ActionKind string

const (
	ActionGoto     ActionKind = "goto"
	ActionWaitIdle ActionKind = "wait_idle"
	ActionFocus    ActionKind = "focus"
	ActionFill     ActionKind = "fill"
	ActionClick    ActionKind = "click"
	ActionEvaluate ActionKind = "evaluate"
	ActionClose    ActionKind = "close"
)

type Action struct {
	Kind   ActionKind
	Target string
	Value  string
}

type clickHook struct {
	selector string
	fn       func(p *Page)
}

type Page struct {
	mu       sync.Mutex
	doc      *goquery.Document
	url      string
	actions  []Action
	hooks    []clickHook
	closed   bool
	closeErr error
	idleErr  error

	// OnGoto replaces the default navigation, which only sets the URL.
	OnGoto func(p *Page, url string)
	// OnEvaluate answers page scripts; nil answers false.
	OnEvaluate func(script string) (any, error)
}

func NewPage(url, body string) *Page {
	p := &Page{url: url}
	p.SetHTML(body)
	return p
}

func (p *Page) SetHTML(body string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		panic(fmt.Sprintf("browsertest: parsing html: %v", err))
	}
	p.mu.Lock()
	p.doc = doc
	p.mu.Unlock()
}

func (p *Page) SetURL(url string) {
	p.mu.Lock()
	p.url = url
	p.mu.Unlock()
}

func (p *Page) FailNetworkIdle(err error) {
	p.mu.Lock()
	p.idleErr = err
	p.mu.Unlock()
}

func (p *Page) FailClose(err error) {
	p.mu.Lock()
	p.closeErr = err
	p.mu.Unlock()
}

// OnClick runs fn after any element matching selector is clicked.
func (p *Page) OnClick(selector string, fn func(p *Page)) {
	p.mu.Lock()
	p.hooks = append(p.hooks, clickHook{selector: selector, fn: fn})
	p.mu.Unlock()
}

func (p *Page) Actions() []Action {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Action(nil), p.actions...)
}

// ActionsOf returns the recorded actions of one kind.
func (p *Page) ActionsOf(kind ActionKind) []Action {
	var out []Action
	for _, a := range p.Actions() {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

// Value returns the value attribute of the first element matching selector,
// including values set through Fill.
func (p *Page) Value(selector string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	sel, err := find(p.doc.Selection, selector)
	if err != nil || sel.Length() == 0 {
		return ""
	}
	v, _ := sel.First().Attr("value")
	return v
}

func (p *Page) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Page) record(a Action) {
	p.mu.Lock()
	p.actions = append(p.actions, a)
	p.mu.Unlock()
}

func (p *Page) QuerySelector(selector string) (contract.Element, error) {
	p.mu.Lock()
	root := p.doc.Selection
	p.mu.Unlock()
	return query(p, root, selector)
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *Page) Goto(url string) error {
	p.record(Action{Kind: ActionGoto, Value: url})
	if p.OnGoto != nil {
		p.OnGoto(p, url)
		return nil
	}
	p.SetURL(url)
	return nil
}

func (p *Page) WaitForNetworkIdle(time.Duration) error {
	p.record(Action{Kind: ActionWaitIdle})
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idleErr
}

// WaitForSelector never blocks: the DOM is static between actions.
func (p *Page) WaitForSelector(selector string, timeout time.Duration) (contract.Element, error) {
	el, err := p.QuerySelector(selector)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, fmt.Errorf("%w: %s after %s", domain.ErrWaitTimeout, selector, timeout)
	}
	return el, nil
}

func (p *Page) Evaluate(script string) (any, error) {
	p.record(Action{Kind: ActionEvaluate})
	if p.OnEvaluate == nil {
		return false, nil
	}
	return p.OnEvaluate(script)
}

func (p *Page) Close() error {
	p.record(Action{Kind: ActionClose})
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return p.closeErr
}

type Element struct {
	page *Page
	sel  *goquery.Selection
}

func (e *Element) QuerySelector(selector string) (contract.Element, error) {
	return query(e.page, e.sel, selector)
}

func (e *Element) TagName() (string, error) {
	return goquery.NodeName(e.sel), nil
}

func (e *Element) Focus() error {
	e.page.record(Action{Kind: ActionFocus, Target: describe(e.sel)})
	return nil
}

func (e *Element) Fill(value string) error {
	e.page.record(Action{Kind: ActionFill, Target: describe(e.sel), Value: value})
	e.page.mu.Lock()
	e.sel.SetAttr("value", value)
	e.page.mu.Unlock()
	return nil
}

func (e *Element) Click() error {
	e.page.record(Action{Kind: ActionClick, Target: describe(e.sel)})

	e.page.mu.Lock()
	node := e.sel.Get(0)
	root := e.page.doc.Selection
	var fire []func(p *Page)
	for _, h := range e.page.hooks {
		matched, err := find(root, h.selector)
		if err == nil && containsNode(matched, node) {
			fire = append(fire, h.fn)
		}
	}
	e.page.mu.Unlock()

	for _, fn := range fire {
		fn(e.page)
	}
	return nil
}

func (e *Element) InnerText() (string, error) {
	return strings.TrimSpace(e.sel.Text()), nil
}

func query(p *Page, root *goquery.Selection, selector string) (contract.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sel, err := find(root, selector)
	if err != nil {
		return nil, err
	}
	if sel.Length() == 0 {
		return nil, nil
	}
	return &Element{page: p, sel: sel.First()}, nil
}

func containsNode(sel *goquery.Selection, node *html.Node) bool {
	for _, n := range sel.Nodes {
		if n == node {
			return true
		}
	}
	return false
}

func describe(sel *goquery.Selection) string {
	if id, ok := sel.Attr("id"); ok && id != "" {
		return "#" + id
	}
	name := goquery.NodeName(sel)
	if n, ok := sel.Attr("name"); ok && n != "" {
		return fmt.Sprintf("%s[name=%q]", name, n)
	}
	if cls, ok := sel.Attr("class"); ok && cls != "" {
		return name + "." + strings.Join(strings.Fields(cls), ".")
	}
	return name
}

var errUnterminated = errors.New("unterminated :has-text argument")

const hasText = ":has-text("

// find evaluates selector below root. One :has-text(...) per selector is
// supported, optionally followed by a descendant or child selector.
func find(root *goquery.Selection, selector string) (*goquery.Selection, error) {
	idx := strings.Index(selector, hasText)
	if idx < 0 {
		return compileFind(root, selector)
	}

	base := strings.TrimSpace(selector[:idx])
	if base == "" {
		base = "*"
	}
	needle, rest, err := parseQuoted(selector[idx+len(hasText):])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", selector, err)
	}

	candidates, err := compileFind(root, base)
	if err != nil {
		return nil, err
	}
	needle = strings.ToLower(needle)
	matched := candidates.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(strings.ToLower(s.Text()), needle)
	})

	rest = strings.TrimSpace(rest)
	switch {
	case rest == "":
		return matched, nil
	case strings.HasPrefix(rest, ">"):
		m, err := cascadia.Compile(strings.TrimSpace(rest[1:]))
		if err != nil {
			return nil, err
		}
		return matched.ChildrenMatcher(m), nil
	default:
		return compileFind(matched, rest)
	}
}

func compileFind(root *goquery.Selection, selector string) (*goquery.Selection, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, err
	}
	return root.FindMatcher(m), nil
}

// parseQuoted reads `"text")` from s and returns text plus what follows.
func parseQuoted(s string) (string, string, error) {
	if s == "" || (s[0] != '"' && s[0] != '\'') {
		return "", "", errUnterminated
	}
	quote := s[0]
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			i++
			b.WriteByte(s[i])
		case c == quote:
			rest := strings.TrimLeft(s[i+1:], " ")
			if !strings.HasPrefix(rest, ")") {
				return "", "", errUnterminated
			}
			return b.String(), rest[1:], nil
		default:
			b.WriteByte(c)
		}
	}
	return "", "", errUnterminated
}

type Session struct {
	page *Page

	mu       sync.Mutex
	closes   int
	closeErr error
}

func NewSession(page *Page) *Session {
	return &Session{page: page}
}

func (s *Session) Page() contract.Page {
	return s.page
}

// Close closes the page like the real session and counts the call.
func (s *Session) Close(context.Context) error {
	pageErr := s.page.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return errors.Join(pageErr, s.closeErr)
}

func (s *Session) FailClose(err error) {
	s.mu.Lock()
	s.closeErr = err
	s.mu.Unlock()
}

func (s *Session) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

type Launcher struct {
	Session *Session
	Err     error

	mu       sync.Mutex
	launches int
}

func (l *Launcher) Launch(context.Context) (contract.Session, error) {
	l.mu.Lock()
	l.launches++
	l.mu.Unlock()
	if l.Err != nil {
		return nil, l.Err
	}
	return l.Session, nil
}

func (l *Launcher) Launches() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launches
}
