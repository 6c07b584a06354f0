package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/mezonai/powledger/block"
	"github.com/mezonai/powledger/client"
	"github.com/mezonai/powledger/errors"
	"github.com/mezonai/powledger/exception"
	"github.com/mezonai/powledger/interfaces"
	"github.com/mezonai/powledger/jsonx"
	"github.com/mezonai/powledger/logx"
	"github.com/mezonai/powledger/monitoring"
	"github.com/mezonai/powledger/transaction"
)

const maxBodyBytes = 1 << 20

type TxReq struct {
	Sender   *string  `json:"sender"`
	Receiver *string  `json:"receiver"`
	Amount   *float64 `json:"amount"`
}

type RegisterReq struct {
	Nodes []string `json:"nodes"`
}

type MineResp struct {
	Message      string                    `json:"message"`
	Index        uint64                    `json:"index"`
	Transactions []transaction.Transaction `json:"transactions"`
	Proof        uint64                    `json:"proof"`
	PreviousHash string                    `json:"previous_hash"`
	Timestamp    int64                     `json:"timestamp"`
}

type MessageResp struct {
	Message string `json:"message"`
}

type RegisterResp struct {
	Message    string   `json:"message"`
	TotalNodes []string `json:"total_nodes"`
}

type ResolveResp struct {
	Message  string        `json:"message"`
	NewChain []block.Block `json:"new_chain,omitempty"`
	Chain    []block.Block `json:"chain,omitempty"`
}

type APIServer struct {
	Ledger     interfaces.Ledger
	NodeID     string
	ListenAddr string

	mux      *http.ServeMux
	server   *http.Server
	listener net.Listener
	errCh    chan error
}

func NewAPIServer(ld interfaces.Ledger, nodeID, addr string) *APIServer {
	s := &APIServer{
		Ledger:     ld,
		NodeID:     nodeID,
		ListenAddr: addr,
		mux:        http.NewServeMux(),
		errCh:      make(chan error, 1),
	}
	s.mux.HandleFunc("/mine", s.handleMine)
	s.mux.HandleFunc("/transactions/new", s.handleNewTransaction)
	s.mux.HandleFunc("/chain", s.handleChain)
	s.mux.HandleFunc("/nodes/register", s.handleRegisterNodes)
	s.mux.HandleFunc("/nodes/resolve", s.handleResolve)
	monitoring.RegisterMetrics(s.mux)
	return s
}

func (s *APIServer) Handler() http.Handler {
	return s.mux
}

// Start binds ListenAddr and serves in the background. A bind failure is returned to the
// caller; a later serve failure is delivered on Err.
func (s *APIServer) Start() error {
	ln, err := net.Listen("tcp", s.ListenAddr)
	if err != nil {
		return fmt.Errorf("api listen on %s: %w", s.ListenAddr, err)
	}
	s.listener = ln
	s.server = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logx.Info("API", "API listen on ", ln.Addr().String())
	exception.SafeGoWithPanic("api-server", func() {
		if err := s.server.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logx.Error("API", "API server stopped: ", err)
			s.errCh <- err
		}
	})
	return nil
}

// Addr is the bound listen address, empty before Start.
func (s *APIServer) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Err yields the error that stopped a started server. It never fires after Shutdown.
func (s *APIServer) Err() <-chan error {
	return s.errCh
}

func (s *APIServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *APIServer) handleMine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	blk, err := s.Ledger.Mine(r.Context(), s.NodeID)
	if err != nil {
		logx.Warn("API", "Mine request failed: ", err)
		http.Error(w, fmt.Sprintf("mining aborted: %v", err), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, MineResp{
		Message:      "New Block Forged",
		Index:        blk.Index,
		Transactions: blk.Transactions,
		Proof:        blk.Proof,
		PreviousHash: blk.PreviousHash,
		Timestamp:    blk.Timestamp,
	})
}

func (s *APIServer) handleNewTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var req TxReq
	if err := jsonx.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	if req.Sender == nil || req.Receiver == nil || req.Amount == nil {
		http.Error(w, "Missing values", http.StatusBadRequest)
		return
	}

	index, err := s.Ledger.SubmitTransaction(*req.Sender, *req.Receiver, *req.Amount)
	if err != nil {
		status := http.StatusInternalServerError
		if stderrors.Is(err, errors.ErrInvalidAmount) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	writeJSON(w, http.StatusCreated, MessageResp{
		Message: fmt.Sprintf("Transaction will be added to Block %d", index),
	})
}

func (s *APIServer) handleChain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	chain := s.Ledger.Chain()
	writeJSON(w, http.StatusOK, client.ChainResponse{Chain: chain, Length: len(chain)})
}

func (s *APIServer) handleRegisterNodes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var req RegisterReq
	if err := jsonx.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	if len(req.Nodes) == 0 {
		http.Error(w, "Error: Please supply a valid list of nodes", http.StatusBadRequest)
		return
	}

	if _, err := s.Ledger.RegisterPeers(req.Nodes); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResp{
		Message:    "New nodes have been added",
		TotalNodes: s.Ledger.Peers(),
	})
}

func (s *APIServer) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	replaced, err := s.Ledger.Resolve(r.Context())
	if err != nil {
		logx.Warn("API", "Resolve request failed: ", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	chain := s.Ledger.Chain()
	if replaced {
		writeJSON(w, http.StatusOK, ResolveResp{Message: "Our chain was replaced", NewChain: chain})
		return
	}
	writeJSON(w, http.StatusOK, ResolveResp{Message: "Our chain is authoritative", Chain: chain})
}

// writeJSON encodes v before touching the response so an encode failure still gets a 500.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := jsonx.Marshal(v)
	if err != nil {
		logx.Error("API", "Failed to encode response: ", err)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
