package contract

import (
	"context"
	"time"
)

// Scope is anything selectors can be evaluated against: a page or an element.
// QuerySelector returns (nil, nil) when nothing matches.
type Scope interface {
	QuerySelector(selector string) (Element, error)
}

type Element interface {
	Scope
	TagName() (string, error)
	Focus() error
	Fill(value string) error
	Click() error
	InnerText() (string, error)
}

type Page interface {
	Scope
	URL() string
	Goto(url string) error
	WaitForNetworkIdle(timeout time.Duration) error
	// WaitForSelector blocks until selector matches or timeout elapses.
	WaitForSelector(selector string, timeout time.Duration) (Element, error)
	Evaluate(script string) (any, error)
	Close() error
}

// Session owns one page together with the browser context and engine behind it.
type Session interface {
	Page() Page
	Close(ctx context.Context) error
}

type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}
