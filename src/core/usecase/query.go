package usecase

import (
	"context"
	"log/slog"

	"dbclient/src/core/client"
	"dbclient/src/core/domain"
	"dbclient/src/core/ports"
)

// Executor is the part of *client.Client the query service needs.
type Executor interface {
	Name() string
	Execute(ctx context.Context, req client.Request) (domain.Result, error)
	Transaction(ctx context.Context, fn func(tx *client.Transaction) error) error
}

// QueryInput is one ad hoc statement run from the admin API.
type QueryInput struct {
	Builder ports.Builder

	// Transactional runs the statement between begin and commit.
	Transactional bool

	// Debug overrides client tracing. Transactional runs use the client default.
	Debug *bool
}

// QueryService runs ad hoc statements through a client.
type QueryService struct {
	clients map[string]Executor
	log     *slog.Logger
}

// NewQueryService indexes clients by name.
func NewQueryService(log *slog.Logger, clients ...Executor) *QueryService {
	byName := make(map[string]Executor, len(clients))
	for _, c := range clients {
		byName[c.Name()] = c
	}
	return &QueryService{clients: byName, log: log}
}

// Run executes in on the named client.
func (s *QueryService) Run(ctx context.Context, clientName string, in QueryInput) (domain.Result, error) {
	c, ok := s.clients[clientName]
	if !ok {
		return domain.Result{}, domain.NewNotFoundError("client " + clientName)
	}

	if !in.Transactional {
		return c.Execute(ctx, client.Request{Builder: in.Builder, Debug: in.Debug})
	}

	var res domain.Result
	err := c.Transaction(ctx, func(tx *client.Transaction) error {
		var err error
		res, err = tx.Execute(ctx, in.Builder)
		return err
	})
	if err != nil {
		s.log.Info("transactional query rolled back", "client", clientName, "error", err)
		return domain.Result{}, err
	}
	return res, nil
}
