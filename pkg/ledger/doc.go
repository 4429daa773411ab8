// Package ledger provides the shared types and transport contract for the
// Fennel ledger API client.
//
// # Overview
//
// The ledger package defines credentials, queries, pages, streams, the error
// taxonomy and the process-wide settings. Resource packages (e.g.
// transaction, brcodepayment, boletoholmes) are thin typed wrappers: each
// declares its resource shape and delegates all I/O to the shared transport
// layer, which signs every request with the credential's secp256k1 key.
//
// # Credentials
//
// Construct a credential once and either install it as the process default
// or pass it per call:
//
//	cred, err := ledger.NewCredential("access-id", privateKeyPEM, ledger.EnvironmentSandbox)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ledger.SetDefaultCredential(cred)
//
// The default is installed once before the first call and only read
// afterwards; a per-call credential always takes precedence.
//
// # Queries and pagination
//
//	txs, err := transaction.Query(ctx, ledger.NewQuery().WithLimit(50), nil).All()
//
// Query streams are lazy and single-pass: pages are fetched on demand, at
// most one at a time, and iteration stops fetching as soon as the consumer
// stops. For explicit cursor control use the resource's Page function.
//
// # Errors
//
// Every failure is surfaced to the caller, never silently retried. Helpers
// such as IsNotFound, IsUnauthorized, IsNetwork and IsConfiguration branch
// on the common cases; ValidationError identifies rejected batch-create
// entries by position.
package ledger
