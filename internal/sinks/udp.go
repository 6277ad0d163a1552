package sinks

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/haze-fm/haze/internal/mpegts"
	"github.com/haze-fm/haze/internal/ring"
)

// getTimeout is how long the UDP feeder blocks waiting for a chunk before
// re-checking whether it should exit, per spec.md §4.7.
const getTimeout = 200 * time.Millisecond

// pendingMetadata buffers packetized ID3 TS packets produced by an
// mpegts.Injector until the remux loop has a chance to splice them into the
// encoder's TS output between complete packets. It implements io.Writer so
// an *mpegts.Injector can write straight into it.
type pendingMetadata struct {
	ch chan []byte
}

func newPendingMetadata() *pendingMetadata {
	return &pendingMetadata{ch: make(chan []byte, 64)}
}

func (p *pendingMetadata) Write(b []byte) (int, error) {
	cp := append([]byte(nil), b...)
	select {
	case p.ch <- cp:
	default:
		log.Printf("sinks: dropping metadata TS packet, remux loop backed up")
	}
	return len(b), nil
}

// drainReady flushes every metadata packet currently queued, without
// blocking, writing each to w.
func (p *pendingMetadata) drainReady(w io.Writer) {
	for {
		select {
		case pkt := <-p.ch:
			if _, err := w.Write(pkt); err != nil {
				log.Printf("sinks: failed to write metadata TS packet: %v", err)
			}
		default:
			return
		}
	}
}

// UDP feeds PCM to an external encoder subprocess and ships its MPEG-TS
// output to a UDP socket (C7). When metadata injection is enabled, it reads
// the encoder's own TS stream back and splices ID3 metadata packets into it
// between complete TS packets — the remux strategy spec.md §4.7 resolves
// its open question in favor of, rather than the source's bug of writing
// metadata packets into the encoder's PCM stdin.
type UDP struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	conn   net.Conn

	injector *mpegts.Injector
	pending  *pendingMetadata

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// UDPConfig is the subset of outputs.udp configuration the sink needs.
type UDPConfig struct {
	Host          string
	Port          int
	Codec         string
	Bitrate       string
	Format        string
	EmbedMetadata bool
}

// NewUDP dials cfg's UDP target, spawns the encoder subprocess, and starts
// the feeder and remux goroutines pulling from src.
func NewUDP(cfg UDPConfig, sampleRate, channels int, src *ring.Ring) (*UDP, error) {
	conn, err := net.Dial("udp", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)))
	if err != nil {
		return nil, fmt.Errorf("sinks: failed to dial UDP target: %w", err)
	}

	cmd := exec.Command("ffmpeg",
		"-loglevel", "error",
		"-f", "s16le",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", strconv.Itoa(channels),
		"-i", "pipe:0",
		"-c:a", cfg.Codec,
		"-b:a", cfg.Bitrate,
		"-f", cfg.Format,
		"-flush_packets", "1",
		"pipe:1",
	)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("sinks: failed to open encoder stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("sinks: failed to open encoder stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sinks: failed to start UDP encoder: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	u := &UDP{
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdout,
		conn:   conn,
		ctx:    ctx,
		cancel: cancel,
	}

	if cfg.EmbedMetadata {
		u.pending = newPendingMetadata()
		u.injector = mpegts.NewInjector(u.pending)
	}

	u.wg.Add(2)
	go u.feedLoop(src)
	go u.remuxLoop()

	return u, nil
}

// feedLoop drains src into the encoder's stdin until stopped or the pipe
// breaks.
func (u *UDP) feedLoop(src *ring.Ring) {
	defer u.wg.Done()

	for {
		select {
		case <-u.ctx.Done():
			return
		default:
		}

		chunk, ok := src.Get(u.ctx, getTimeout)
		if !ok {
			continue
		}
		if chunk.IsBoundary() {
			continue
		}

		if _, err := u.stdin.Write(chunk.Data); err != nil {
			log.Printf("sinks: UDP encoder stdin write failed, stopping feeder: %v", err)
			return
		}
	}
}

// remuxLoop reads the encoder's TS output packet-by-packet and forwards
// each to the UDP socket, interleaving any queued metadata packets between
// them.
func (u *UDP) remuxLoop() {
	defer u.wg.Done()

	r := bufio.NewReaderSize(u.stdout, mpegts.PacketSize*32)
	buf := make([]byte, mpegts.PacketSize)

	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return
		}

		if u.pending != nil {
			u.pending.drainReady(u.conn)
		}

		if _, err := u.conn.Write(buf); err != nil {
			log.Printf("sinks: UDP write failed: %v", err)
			return
		}
	}
}

// Update pushes fresh track metadata into the injector, if metadata
// embedding is enabled; otherwise it is a no-op.
func (u *UDP) Update(title, artist, album string) {
	if u.injector == nil {
		return
	}
	if err := u.injector.Update(title, artist, album); err != nil {
		log.Printf("sinks: failed to build metadata packets: %v", err)
	}
}

// Close stops the feeder and remux goroutines, kills the encoder, and
// closes the UDP socket.
func (u *UDP) Close() error {
	u.cancel()
	u.stdin.Close()
	if u.cmd.Process != nil {
		u.cmd.Process.Kill()
	}
	u.wg.Wait()
	u.cmd.Wait()
	return u.conn.Close()
}
