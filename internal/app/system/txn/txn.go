// Package txn runs multi-document MongoDB work in a transaction when the
// deployment supports one, and falls back to sequential execution when it
// does not (standalone servers have no transaction support).
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// notSupportedPairs are keyword pairs that identify "transactions not
// supported here" errors when the server does not return a recognized
// command error code.
var notSupportedPairs = [][2]string{
	{"transaction", "replica set"},
	{"session", "not supported"},
	{"transaction", "session"},
	{"illegal operation", "transaction"},
}

// IsNotSupported reports whether err means the deployment cannot run
// transactions. Codes 20 (IllegalOperation on standalone), 51
// (CommandNotSupported) and 263 (OperationNotSupportedInTransaction) are
// definitive; otherwise the message is matched against known phrasings.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Code {
		case 20, 51, 263:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, pair := range notSupportedPairs {
		if strings.Contains(msg, pair[0]) && strings.Contains(msg, pair[1]) {
			return true
		}
	}
	return false
}

// WithTransaction runs fn inside a MongoDB transaction. When the
// deployment rejects transactions, fn is retried once outside a session so
// the caller's writes still happen (individually, without atomicity).
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
	session, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return fn(ctx)
	}
	return err
}
