package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wricardo/battleship/game/engine"
	"github.com/wricardo/battleship/game/render"
	"github.com/wricardo/battleship/game/service"
)

var errInputClosed = errors.New("input closed before the match ended")

// game is a hot-seat match: both players take turns at the same terminal
type game struct {
	svc      service.GameService
	renderer *render.Renderer
	in       *bufio.Scanner
	out      io.Writer
}

func newGame(svc service.GameService, in io.Reader, out io.Writer, styled bool) *game {
	return &game{
		svc:      svc,
		renderer: render.New(styled),
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// play creates a match and runs it until there is a winner, the players
// quit, or input runs out
func (g *game) play(ctx context.Context, req service.CreateMatchRequest) error {
	info, err := g.svc.CreateMatch(ctx, req)
	if err != nil {
		return err
	}
	rules, err := g.svc.Rules(ctx, info.ConfigID)
	if err != nil {
		return err
	}

	fmt.Fprintln(g.out, g.renderer.Title(fmt.Sprintf("Battleship: %s vs %s", info.Player1.Name, info.Player2.Name)))
	fmt.Fprint(g.out, g.renderer.GameInfo(rules.BoardSize, rules.Roster()))
	fmt.Fprintln(g.out, "Enter a target as two letters, row first (BD). Add + to mark a cell (BD+). Type quit to stop.")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		view, err := g.svc.PlayerView(ctx, info.ID, info.NextShooter)
		if err != nil {
			return err
		}
		if view.Winner != engine.WinnerNone {
			return g.finish(ctx, info.ID, view)
		}

		done, err := g.turn(ctx, info.ID, view)
		if err != nil || done {
			return err
		}

		if info, err = g.svc.GetMatch(ctx, info.ID); err != nil {
			return err
		}
	}
}

// turn reads commands from the shooter until one shot lands. Marks and
// invalid input keep the same player at the prompt. It reports done when the
// players quit.
func (g *game) turn(ctx context.Context, matchID string, view *service.PlayerView) (bool, error) {
	g.showBoards(view)

	for {
		fmt.Fprintf(g.out, "%s, your target: ", view.Name)
		line, ok := g.readLine()
		if !ok {
			return false, errInputClosed
		}
		if line == "quit" || line == "q" {
			fmt.Fprintln(g.out, "Match abandoned.")
			return true, nil
		}

		cmd, err := render.ParseCommand(line)
		if err != nil {
			fmt.Fprintln(g.out, "Invalid input. Enter two letters like BD, or BD+ to mark.")
			continue
		}

		if cmd.Mark {
			marked, err := g.svc.Mark(ctx, matchID, view.Player, cmd.Target.Row, cmd.Target.Col)
			if errors.Is(err, engine.ErrOutOfBounds) {
				fmt.Fprintf(g.out, "%s is off the board.\n", strings.ToUpper(line))
				continue
			}
			if err != nil {
				return false, err
			}
			view = marked
			fmt.Fprint(g.out, g.renderer.ShotBoard(view.Shots))
			continue
		}

		result, err := g.svc.Shoot(ctx, matchID, view.Player, cmd.Target.Row, cmd.Target.Col)
		if errors.Is(err, engine.ErrOutOfBounds) {
			fmt.Fprintf(g.out, "%s is off the board.\n", strings.ToUpper(line))
			continue
		}
		if err != nil {
			return false, err
		}

		fmt.Fprintln(g.out, result.Message)
		return false, nil
	}
}

func (g *game) showBoards(view *service.PlayerView) {
	fmt.Fprintln(g.out)
	fmt.Fprintln(g.out, g.renderer.Title(fmt.Sprintf("%s's turn", view.Name)))
	fmt.Fprintf(g.out, "Your shots at %s (%d ships left):\n", view.OpponentName, view.OpponentShipsAlive)
	fmt.Fprint(g.out, g.renderer.ShotBoard(view.Shots))
	fmt.Fprintf(g.out, "Your fleet (%d ships left):\n", view.ShipsAlive)
	fmt.Fprint(g.out, g.renderer.ShipBoard(view.Ships))
}

// finish announces the winner and reveals both fleets. view belongs to the
// player whose turn came up after the winning shot.
func (g *game) finish(ctx context.Context, matchID string, view *service.PlayerView) error {
	winner := view.Name
	if w, _ := view.Winner.Player(); w != view.Player {
		winner = view.OpponentName
	}

	fmt.Fprintln(g.out)
	fmt.Fprintln(g.out, g.renderer.Title(fmt.Sprintf("%s wins!", winner)))
	for _, p := range []engine.PlayerID{engine.Player1, engine.Player2} {
		v, err := g.svc.PlayerView(ctx, matchID, p)
		if err != nil {
			return err
		}
		fmt.Fprintf(g.out, "%s's fleet:\n", v.Name)
		fmt.Fprint(g.out, g.renderer.ShipBoard(v.Ships))
	}
	return nil
}

func (g *game) readLine() (string, bool) {
	if !g.in.Scan() {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(g.in.Text())), true
}
