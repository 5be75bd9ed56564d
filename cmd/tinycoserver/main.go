// Command tinycoserver hosts a tinyco coordinator behind a gRPC front end so
// a separate global transaction manager can list Prepared transactions and
// deliver commit/abort decisions for them.
package main

import (
	"flag"
	"log"
	"net"

	"google.golang.org/grpc"

	"github.com/localcommit/tinyco/internal/maintenance"
	"github.com/localcommit/tinyco/internal/mvcc"
	"github.com/localcommit/tinyco/internal/voteservice"
)

var (
	flagGRPC     = flag.String("grpc", ":9191", "gRPC listen address for the vote service")
	flagPages    = flag.Int("pages", 64, "number of pages in the bootstrap page pool")
	flagSchedule = flag.String("sweep", "@every 1m", "cron schedule for the maintenance sweeper")
)

func main() {
	flag.Parse()

	reg := voteservice.NewRegistry()
	coord := mvcc.NewCoordinatorWithHooks(voteservice.TrackingHooks{Reg: reg, Next: mvcc.DefaultHooks{}})

	pages, _ := mvcc.NewPagePool(coord, *flagPages)

	actor := mvcc.NewActor(32)
	defer actor.Close()

	sweepCfg := maintenance.DefaultConfig()
	sweepCfg.Schedule = *flagSchedule
	sweeper := maintenance.New(sweepCfg, actor, pages)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("maintenance: %v", err)
	}
	defer sweeper.Stop()

	lis, err := net.Listen("tcp", *flagGRPC)
	if err != nil {
		log.Fatalf("gRPC listen error: %v", err)
	}

	gs := grpc.NewServer()
	voteservice.RegisterVoteServer(gs, voteservice.NewServer(reg, actor))
	log.Printf("tinycoserver: vote service listening on %s (%d pages)", *flagGRPC, *flagPages)
	if err := gs.Serve(lis); err != nil {
		log.Fatalf("gRPC serve error: %v", err)
	}
}
