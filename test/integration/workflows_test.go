package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fennelpay/ledger-go/pkg/ledger"
	"github.com/fennelpay/ledger-go/pkg/ledger/boletoholmes"
	"github.com/fennelpay/ledger-go/pkg/ledger/brcodepayment"
	"github.com/fennelpay/ledger-go/pkg/ledger/transaction"
)

func TestTransactionWorkflow(t *testing.T) {
	t.Parallel()

	_, cred := startFakeLedger(t)
	ctx := context.Background()

	// Create a batch, then read one member back by id.
	created, err := transaction.Create(ctx, []transaction.Transaction{
		{Amount: 100, Description: "first", ExternalID: "ext-1", ReceiverID: "acc-2"},
		{Amount: 200, Description: "second", ExternalID: "ext-2", ReceiverID: "acc-2"},
		{Amount: 300, Description: "third", ExternalID: "ext-3", ReceiverID: "acc-2"},
	}, cred)
	require.NoError(t, err)
	require.Len(t, created, 3)

	for _, txn := range created {
		assert.NotEmpty(t, txn.ID)
		require.NotNil(t, txn.Created)
	}

	got, err := transaction.Get(ctx, created[1].ID, cred)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Description)

	// The fake server pages two at a time; the stream walks every page.
	all, err := transaction.Query(ctx, ledger.NewQuery(), cred).All()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "first", all[0].Description)
	assert.Equal(t, "third", all[2].Description)

	// A limited stream stops early.
	two, err := transaction.Query(ctx, ledger.NewQuery().WithLimit(2), cred).All()
	require.NoError(t, err)
	assert.Len(t, two, 2)

	// Manual paging with explicit cursors covers the same ground.
	var pages int

	query := ledger.NewQuery()

	for {
		page, err := transaction.Page(ctx, query, cred)
		require.NoError(t, err)

		pages++
		if !page.HasMore() {
			break
		}

		query.Cursor = page.Cursor
	}

	assert.Equal(t, 2, pages)
}

func TestRejectedBatchHasNoEffect(t *testing.T) {
	t.Parallel()

	_, cred := startFakeLedger(t)
	ctx := context.Background()

	_, err := transaction.Create(ctx, []transaction.Transaction{
		{Amount: 100, ExternalID: "ext-1", ReceiverID: "acc-2"},
		{Amount: -5, ExternalID: "ext-2", ReceiverID: "acc-2"},
	}, cred)
	require.Error(t, err)

	validation := &ledger.ValidationError{}
	require.ErrorAs(t, err, &validation)
	require.Len(t, validation.Entries, 1)
	assert.Equal(t, 1, validation.Entries[0].Index)

	// The valid entry was not created either.
	all, err := transaction.Query(ctx, ledger.NewQuery(), cred).All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGetMissingResource(t *testing.T) {
	t.Parallel()

	_, cred := startFakeLedger(t)

	_, err := transaction.Get(context.Background(), "transaction-999", cred)
	require.Error(t, err)
	assert.True(t, ledger.IsNotFound(err))
}

func TestPaymentWorkflow(t *testing.T) {
	t.Parallel()

	_, cred := startFakeLedger(t)
	ctx := context.Background()

	created, err := brcodepayment.Create(ctx, []brcodepayment.BrcodePayment{{
		Brcode:      "00020126580014br.gov.bcb.pix",
		TaxID:       "012.345.678-90",
		Description: "utility bill",
		Amount:      4200,
	}}, cred)
	require.NoError(t, err)
	require.Len(t, created, 1)

	got, err := brcodepayment.Get(ctx, created[0].ID, cred)
	require.NoError(t, err)
	assert.Equal(t, "utility bill", got.Description)
	assert.Equal(t, 4200, got.Amount)
}

func TestHolmesWorkflow(t *testing.T) {
	t.Parallel()

	_, cred := startFakeLedger(t)
	ctx := context.Background()

	created, err := boletoholmes.Create(ctx, []boletoholmes.BoletoHolmes{
		{BoletoID: "bol-1"},
		{BoletoID: "bol-2"},
	}, cred)
	require.NoError(t, err)
	require.Len(t, created, 2)

	got, err := boletoholmes.Get(ctx, created[0].ID, cred)
	require.NoError(t, err)
	assert.Equal(t, "bol-1", got.BoletoID)
}
