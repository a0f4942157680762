// Package monitoring turns a translation session into a web server and
// allows external inspection of the walker and the physical memory.
package monitoring

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"

	"github.com/sarchlab/pagewalk/memory"
	"github.com/sarchlab/pagewalk/walker"
)

// Monitor exposes the state of a translation session over HTTP.
type Monitor struct {
	walker  *walker.Walker
	storage *memory.Storage

	portNumber  int
	openBrowser bool
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowserOpening makes StartServer open the monitor in a browser.
func (m *Monitor) WithBrowserOpening() *Monitor {
	m.openBrowser = true
	return m
}

// RegisterWalker registers the walker to be monitored.
func (m *Monitor) RegisterWalker(w *walker.Walker) {
	m.walker = w
}

// RegisterStorage registers the physical memory to be monitored.
func (m *Monitor) RegisterStorage(s *memory.Storage) {
	m.storage = s
}

// StartServer starts the monitor as a web server with a custom port if
// wanted.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()

	r.HandleFunc("/api/root_table", m.rootTable)
	r.HandleFunc("/api/mem/{addr}", m.readWord)
	r.HandleFunc("/api/translate/{addr}", m.translate)
	r.HandleFunc("/api/resource", m.listResources)
	r.PathPrefix("/debug/").Handler(http.DefaultServeMux)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring translation session with %s\n", url)

	if m.openBrowser {
		err := browser.OpenURL(url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open browser: %s\n", err)
		}
	}

	go func() {
		err = http.Serve(listener, r)
		dieOnErr(err)
	}()
}

func (m *Monitor) rootTable(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"root_table\":%d}", m.walker.RootTable())
}

func (m *Monitor) readWord(w http.ResponseWriter, r *http.Request) {
	addr, ok := m.parseAddr(w, r)
	if !ok {
		return
	}

	fmt.Fprintf(w, "{\"addr\":%d,\"value\":%d}",
		addr, m.storage.ReadWord(addr))
}

type translationRsp struct {
	VAddr uint64 `json:"vaddr"`
	PAddr uint64 `json:"paddr"`
	Fault bool   `json:"fault"`
}

func (m *Monitor) translate(w http.ResponseWriter, r *http.Request) {
	vAddr, ok := m.parseAddr(w, r)
	if !ok {
		return
	}

	pAddr, ok := m.walker.Translate(vAddr)
	rsp := translationRsp{
		VAddr: vAddr,
		PAddr: pAddr,
		Fault: !ok,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
	NumWords   int     `json:"num_words"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memorySize, err := proc.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
		NumWords:   m.storage.NumWords(),
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

// parseAddr reads the addr path variable. Both decimal and 0x-prefixed
// hexadecimal are accepted.
func (m *Monitor) parseAddr(
	w http.ResponseWriter,
	r *http.Request,
) (uint64, bool) {
	addr, err := strconv.ParseUint(mux.Vars(r)["addr"], 0, 64)
	if err != nil {
		w.WriteHeader(400)
		fmt.Fprintf(w, "Error: %s", err)
		return 0, false
	}

	return addr, true
}

func dieOnErr(err error) {
	if err != nil {
		panic(err)
	}
}
