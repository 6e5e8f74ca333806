// Package serve provides the AWS Lambda handler for the page API consumed by
// remote lattice clients.
//
// The handler exposes the fetchPage contract over API Gateway: a GET request
// with an optional cursor query parameter returns a JSON {rows, nextCursor}
// body. It pairs with source.NewHTTP on the client side.
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/lattice/engine"
)

// Handler serves pages from a DataSource.
type Handler struct {
	source engine.DataSource
	logger *slog.Logger
}

// NewHandler creates a page API handler.
func NewHandler(source engine.DataSource, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		source: source,
		logger: logger,
	}
}

// errorBody is the JSON error envelope returned on failures.
type errorBody struct {
	Error string `json:"error"`
}

// HandlePage processes one page request. This function is designed to be
// used as an AWS Lambda handler behind API Gateway.
func (h *Handler) HandlePage(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	cursor := engine.Cursor(req.QueryStringParameters["cursor"])

	page, err := h.source.FetchPage(ctx, cursor)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, engine.ErrBadCursor) {
			status = http.StatusBadRequest
		}
		h.logger.Error("page fetch failed",
			"cursor", string(cursor),
			"error", err,
		)
		return respond(status, errorBody{Error: err.Error()})
	}

	h.logger.Info("page served",
		"cursor", string(cursor),
		"rows", len(page.Rows),
		"more", page.Next != "",
	)
	return respond(http.StatusOK, page)
}

func respond(status int, body any) (events.APIGatewayProxyResponse, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(raw),
	}, nil
}
