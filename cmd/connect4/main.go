package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"connect4/internal/bootstrap"
	"connect4/internal/domain/board"
	apperrors "connect4/internal/errors"
	"connect4/internal/evaluator"
	"connect4/internal/render"
	"connect4/internal/search"
	"connect4/internal/snapshot"
	"connect4/internal/usecase/engine"
)

type options struct {
	snapshotPath string
	outPath      string
	configPath   string
	human        string
	play         bool
	noColor      bool
}

func main() {
	logger := NewLogger()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, logger); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		logger.Errorw("connect4 failed", "error", err)
		os.Exit(1)
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, log *zap.SugaredLogger) error {
	fs := pflag.NewFlagSet("connect4", pflag.ContinueOnError)

	var opts options
	fs.StringVar(&opts.snapshotPath, "snapshot", "", "evaluate a snapshot file (- for stdin) and advance it by one move")
	fs.StringVar(&opts.outPath, "out", "", "write the advanced snapshot to this file instead of stdout")
	fs.StringVar(&opts.configPath, "config", ".env", "configuration file")
	fs.StringVar(&opts.human, "human", "", "side played from the keyboard (red or blue); engine against engine when empty")
	fs.BoolVar(&opts.play, "play", false, "play a game in the terminal")
	fs.BoolVar(&opts.noColor, "no-color", false, "disable ANSI colors")
	fs.Int("depth", 5, "search depth in plies")
	fs.Int("width", board.StandardWidth, "board width for --play")
	fs.Int("height", board.StandardHeight, "board height for --play")

	if err := fs.Parse(args); err != nil {
		return err
	}

	v := bootstrap.NewViper()
	for key, flag := range map[string]string{
		"SEARCH_DEPTH": "depth",
		"BOARD_WIDTH":  "width",
		"BOARD_HEIGHT": "height",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return err
		}
	}
	cfg, err := bootstrap.Load(v, opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	renderOpts := render.Options{Color: !opts.noColor}

	switch {
	case opts.snapshotPath != "":
		return advanceSnapshot(ctx, *cfg, opts, renderOpts, stdin, stdout, log)
	case opts.play:
		return play(ctx, *cfg, opts, renderOpts, stdin, stdout)
	}

	fmt.Fprintln(stdout, "usage: connect4 --snapshot FILE [--out FILE] | --play [--human red|blue]")
	fs.SetOutput(stdout)
	fs.PrintDefaults()
	return nil
}

// advanceSnapshot prints the evaluation of every column, plays the best one
// and writes the resulting snapshot.
func advanceSnapshot(ctx context.Context, cfg bootstrap.Config, opts options, ro render.Options, stdin io.Reader, stdout io.Writer, log *zap.SugaredLogger) error {
	in := stdin
	if opts.snapshotPath != "-" {
		f, err := os.Open(opts.snapshotPath)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	b, err := snapshot.Parse(in)
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, render.Board(b, ro))

	if winner, over := evaluator.Outcome(b); over {
		fmt.Fprintln(stdout, gameOver(winner))
		return nil
	}

	analysis, err := engine.NewLocal(log).SelectMove(ctx, b, cfg.SearchDepth)
	if err != nil {
		return err
	}
	printAnalysis(stdout, b, analysis)
	if err = b.Place(analysis.Column); err != nil {
		return err
	}

	out := stdout
	if opts.outPath != "" {
		f, err := os.Create(opts.outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return snapshot.Write(out, b)
}

// play runs a game on a search tree so that work done for one move carries
// over to the next.
func play(ctx context.Context, cfg bootstrap.Config, opts options, ro render.Options, stdin io.Reader, stdout io.Writer) error {
	human := board.Empty
	if opts.human != "" {
		p, ok := board.ParsePiece(opts.human)
		if !ok || p == board.Empty {
			return fmt.Errorf("%w: %q", apperrors.ErrInvalidColor, opts.human)
		}
		human = p
	}

	b, err := board.New(cfg.BoardWidth, cfg.BoardHeight)
	if err != nil {
		return err
	}
	tree := search.NewTree(b)
	in := bufio.NewScanner(stdin)

	fmt.Fprintln(stdout, "Welcome to Connect-4!")
	for {
		fmt.Fprint(stdout, render.Board(tree.Board(), ro))
		if winner, over := evaluator.Outcome(tree.Board()); over {
			fmt.Fprintln(stdout, gameOver(winner))
			return nil
		}
		if err = ctx.Err(); err != nil {
			return err
		}

		if tree.Board().ToMove() == human {
			if err = promptColumn(in, stdout, tree); errors.Is(err, io.EOF) {
				return nil
			} else if err != nil {
				return err
			}
			continue
		}

		if human == board.Empty {
			fmt.Fprintln(stdout, "Press enter to continue...")
			if !in.Scan() {
				return in.Err()
			}
		}

		analysis, err := search.Analyze(tree.Root(), cfg.SearchDepth)
		if err != nil {
			return err
		}
		printAnalysis(stdout, tree.Board(), analysis)
		if err = tree.Play(analysis.Column); err != nil {
			return err
		}
	}
}

func promptColumn(in *bufio.Scanner, out io.Writer, tree *search.Tree) error {
	for {
		fmt.Fprintf(out, "Your move (0-%d): ", tree.Board().Width()-1)
		if !in.Scan() {
			if err := in.Err(); err != nil {
				return err
			}
			return io.EOF
		}

		column, err := strconv.Atoi(strings.TrimSpace(in.Text()))
		if err != nil {
			fmt.Fprintln(out, "Please enter a column number.")
			continue
		}
		if err = tree.Play(column); err != nil {
			fmt.Fprintf(out, "WARNING: %v\n", err)
			continue
		}
		return nil
	}
}

func printAnalysis(out io.Writer, b *board.Board, analysis search.Analysis) {
	fmt.Fprintf(out, " -- MOVE %d EVALUATION --\n", b.MoveCount()+1)
	fmt.Fprint(out, render.Analysis(analysis.Columns))
	fmt.Fprintf(out, "Best column: %d\n\n", analysis.Column)
}

func gameOver(winner board.Piece) string {
	if winner == board.Empty {
		return "Game over: draw"
	}
	return "Game over: " + winner.String() + " wins"
}
