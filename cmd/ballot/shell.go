// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aspc/vote/ballot"
	"github.com/aspc/vote/models"
	"github.com/aspc/vote/votesession"
)

const help = `commands:
  toggle <pos>                 select or deselect a position
  add <pos> <n>                rank pool candidate n
  remove <pos> <rank>          move a ranked candidate back to the pool
  move <pos> <rank> <to>       drag a ranked candidate to another rank
  reset <pos>                  clear the ranking for a position
  writein <pos> <first> <last> write in a candidate
  drop <pos>                   remove the write-in from a position
  review                       review the ballot before submitting
  submit                       cast the reviewed ballot
  back                         return from review to editing
  quit`

type shell struct {
	session *votesession.Session
	in      *bufio.Scanner
	out     io.Writer
}

func newShell(session *votesession.Session, in io.Reader, out io.Writer) *shell {
	return &shell{session: session, in: bufio.NewScanner(in), out: out}
}

func (sh *shell) printf(format string, args ...any) {
	fmt.Fprintf(sh.out, format, args...)
}

func (sh *shell) run(ctx context.Context) error {
	s := sh.session
	election := s.Election()

	switch s.Phase() {
	case votesession.PhaseError, votesession.PhaseClosed, votesession.PhaseVoted:
		sh.printf("%s\n", s.Message())
		return nil
	}

	sh.printf("%s\n%s\nVoting %s.\n\n", election.Name, election.Description, s.TimeRemaining())
	sh.printBallot()
	sh.printf("%s\n", help)

	for {
		sh.printf("> ")
		if !sh.in.Scan() {
			return sh.in.Err()
		}
		fields := strings.Fields(sh.in.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" {
			return nil
		}

		if err := sh.exec(ctx, fields[0], fields[1:]); err != nil {
			sh.printf("%s\n", err)
		}
		if s.Phase() == votesession.PhaseSubmitted {
			sh.printf("Vote confirmed. Your selection has been recorded.\n")
			return nil
		}
	}
}

func (sh *shell) exec(ctx context.Context, cmd string, args []string) error {
	s := sh.session

	switch cmd {
	case "help":
		sh.printf("%s\n", help)
		return nil
	case "review":
		entries, err := s.Review()
		if err != nil {
			return err
		}
		sh.printReview(entries)
		return nil
	case "back":
		if err := s.CloseReview(); err != nil {
			return err
		}
		sh.printBallot()
		return nil
	case "submit":
		if err := s.Submit(ctx); err != nil {
			if msg := s.Message(); msg != "" {
				return errors.New(msg)
			}
			return err
		}
		return nil
	}

	if s.Phase() != votesession.PhaseEditing {
		return errors.New("close the review with 'back' to edit your ballot")
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: %s <pos> ...", cmd)
	}
	section, err := sh.section(args[0])
	if err != nil {
		return err
	}
	args = args[1:]

	switch cmd {
	case "toggle":
		section.Toggle()
	case "add":
		c, err := pick(section.Pool(), args, 0)
		if err != nil {
			return err
		}
		err = section.Promote(c.ID)
		if err != nil {
			return err
		}
	case "remove":
		c, err := pick(section.Ranked(), args, 0)
		if err != nil {
			return err
		}
		err = section.Demote(c.ID)
		if err != nil {
			return err
		}
	case "move":
		ranked := section.Ranked()
		from, err := pick(ranked, args, 0)
		if err != nil {
			return err
		}
		to, err := pick(ranked, args, 1)
		if err != nil {
			return err
		}
		if err := section.BeginDrag(from.ID); err != nil {
			return err
		}
		err = section.DragOver(to.ID)
		section.EndDrag()
		if err != nil {
			return err
		}
	case "reset":
		if err := section.Reset(); err != nil {
			return err
		}
	case "writein":
		if len(args) < 2 {
			return errors.New("usage: writein <pos> <first> <last>")
		}
		result := s.AddWriteIn(ctx, args[0], strings.Join(args[1:], " "), section.Position())
		if !result.OK() {
			return errors.New(result.Message)
		}
	case "drop":
		var writeIn string
		for _, c := range append(section.Pool(), section.Ranked()...) {
			if c.WriteIn {
				writeIn = c.ID
			}
		}
		if writeIn == "" {
			return errors.New("no write-in on this position")
		}
		if err := section.RemoveWriteIn(writeIn); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}

	sh.printSection(section)
	return nil
}

// section accepts a position name or its number in the listing
func (sh *shell) section(arg string) (*ballot.Section, error) {
	positions := sh.session.Positions()
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(positions) {
		arg = positions[n-1]
	}
	section, ok := sh.session.Section(arg)
	if !ok {
		return nil, fmt.Errorf("no position %q on your ballot", arg)
	}
	return section, nil
}

// pick returns the candidate at the 1-based index in args[i]
func pick(candidates []models.Candidate, args []string, i int) (models.Candidate, error) {
	if len(args) <= i {
		return models.Candidate{}, errors.New("missing candidate number")
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n < 1 || n > len(candidates) {
		return models.Candidate{}, fmt.Errorf("no candidate %s", args[i])
	}
	return candidates[n-1], nil
}

func (sh *shell) printBallot() {
	for i, position := range sh.session.Positions() {
		section, _ := sh.session.Section(position)
		sh.printf("%d. ", i+1)
		sh.printSection(section)
	}
	if sh.session.CanSubmit() {
		sh.printf("Ballot complete. Type review to check it.\n")
	}
}

func (sh *shell) printSection(section *ballot.Section) {
	sh.printf("%s [%s]\n", section.Position(), section.State())
	if !section.Active() {
		return
	}
	for i, c := range section.Ranked() {
		sh.printf("   #%d %s%s\n", i+1, c.Name, writeInTag(c))
	}
	for i, c := range section.Pool() {
		sh.printf("   (%d) %s%s\n", i+1, c.Name, writeInTag(c))
	}
}

func (sh *shell) printReview(entries []votesession.ReviewEntry) {
	sh.printf("Please review all rankings carefully. This submission is final.\n")
	for _, entry := range entries {
		sh.printf("%s\n", entry.Position)
		for _, c := range entry.Candidates {
			sh.printf("   #%d %s%s\n", c.Rank, c.Name, writeInTag(models.Candidate{WriteIn: c.WriteIn}))
		}
	}
	sh.printf("Type submit to cast your ballot or back to keep editing.\n")
}

func writeInTag(c models.Candidate) string {
	if c.WriteIn {
		return " (write-in)"
	}
	return ""
}
