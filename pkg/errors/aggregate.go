// Package errors provides the tools for gathering errors for the processes in
// this program which keep working when there are errors.
package errors

import "strings"

// Aggregate groups a list of errors together.
type Aggregate struct {
	errlist []error
}

// NewAggregate returns an Aggregate containing the given list of errors.
func NewAggregate(errlist []error) *Aggregate {
	return &Aggregate{errlist}
}

// Error returns the combined error message for the Aggregate.
func (a *Aggregate) Error() string {
	msg := new(strings.Builder)
	first := true
	for _, err := range a.errlist {
		if !first {
			msg.WriteString("; ")
		}
		msg.WriteString(err.Error())
		first = false
	}
	return msg.String()
}

// Errors returns the individual errors which make up the aggregate.
func (a *Aggregate) Errors() []error {
	return a.errlist
}

// Unwrap lets errors.Is and errors.As look inside the aggregate.
func (a *Aggregate) Unwrap() []error {
	return a.errlist
}

// Collector gathers errors as they happen and produces an Aggregate at the end,
// if anything was gathered.
type Collector struct {
	errlist []error
}

// Add records err. A nil err is ignored.
func (c *Collector) Add(err error) {
	if err != nil {
		c.errlist = append(c.errlist, err)
	}
}

// Len returns the number of errors collected so far.
func (c *Collector) Len() int {
	return len(c.errlist)
}

// Err returns nil if nothing was collected. Otherwise, it returns an Aggregate
// of everything collected.
func (c *Collector) Err() error {
	if len(c.errlist) == 0 {
		return nil
	}
	return NewAggregate(c.errlist)
}
