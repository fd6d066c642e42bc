// corvid is a UCI/console chess engine: alpha-beta search over bitboard
// move generation, blended classical/NNUE evaluation, an optional Polyglot
// opening book and an optional (stubbed) Syzygy-shaped tablebase oracle.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/book"
	"github.com/corvidchess/corvid/pkg/engine"
	"github.com/corvidchess/corvid/pkg/engine/console"
	"github.com/corvidchess/corvid/pkg/engine/uci"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/eval/nnue"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/corvidchess/corvid/pkg/tablebase"
	"github.com/seekerror/logw"
)

var (
	hash      = flag.Uint("hash", 64, "Transposition table size in MB")
	threads   = flag.Int("threads", 1, "Lazy-SMP worker count")
	noise     = flag.Int("noise", 0, "Evaluation noise in millipawns (zero if deterministic)")
	contempt  = flag.Int("contempt", 0, "Draw-avoidance bonus/penalty in centipawns, [-100;100]")
	bookPath  = flag.String("book", "", "Polyglot opening book .bin file (optional)")
	bookSeed  = flag.Int64("book-seed", 0, "Opening book selection random seed")
	nnuePath  = flag.String("nnue", "", "NNUE network file (optional; classical eval used if absent)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: corvid [options]

corvid is a UCI chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	zt := board.NewZobristTable(0)

	var classicalOpts []eval.ClassicalOption
	if *contempt != 0 {
		classicalOpts = append(classicalOpts, eval.WithContempt(*contempt))
	}
	if *nnuePath != "" {
		f, err := os.Open(*nnuePath)
		if err != nil {
			logw.Errorf(ctx, "Failed to open NNUE network %v: %v. Using classical eval only.", *nnuePath, err)
		} else {
			net, err := nnue.Load(f)
			f.Close()
			if err != nil {
				logw.Errorf(ctx, "Failed to load NNUE network %v: %v. Using classical eval only.", *nnuePath, err)
			} else {
				classicalOpts = append(classicalOpts, eval.WithNetwork(net))
			}
		}
	}
	classical := eval.NewClassical(zt, classicalOpts...)

	var tb tablebase.Oracle = tablebase.NoopOracle{}

	newWorker := func(worker int) search.Search {
		return search.AlphaBeta{
			Eval:       search.Quiescence{Eval: classical},
			StaticEval: classical,
			History:    search.NewHistory(),
			Tablebase:  tb,
		}
	}

	var root search.Search
	if *threads > 1 {
		root = search.Pool{New: newWorker, Workers: *threads}
	} else {
		root = newWorker(0)
	}

	e := engine.New(ctx, "corvid", "corvidchess", root,
		engine.WithOptions(engine.Options{Hash: *hash, Noise: uint(*noise)}),
		engine.WithTable(search.NewTranspositionTable),
		engine.WithTablebase(tb))

	var uciOpts []uci.Option
	if *bookPath != "" {
		f, err := os.Open(*bookPath)
		if err != nil {
			logw.Errorf(ctx, "Failed to open opening book %v: %v. Playing without a book.", *bookPath, err)
		} else {
			bk, err := book.Load(f)
			f.Close()
			if err != nil {
				logw.Errorf(ctx, "Failed to load opening book %v: %v. Playing without a book.", *bookPath, err)
			} else {
				seed := *bookSeed
				if seed == 0 {
					seed = time.Now().UnixNano()
				}
				uciOpts = append(uciOpts, uci.UseBook(bk, seed))
			}
		}
	}

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		driver, out := uci.NewDriver(ctx, e, in, uciOpts...)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	case console.ProtocolName:
		driver, out := console.NewDriver(ctx, e, root, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
