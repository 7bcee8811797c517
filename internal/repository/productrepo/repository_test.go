package productrepo_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estoque/internal/domain"
	apperror "estoque/internal/errors"
	"estoque/internal/pkg/logger"
	"estoque/internal/repository/productrepo"
)

func newRepo(t *testing.T) (*productrepo.ProductRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return productrepo.NewProductRepository(db, time.Second, logger.NewNopLogger()), mock
}

func TestFindAll_OrderedByName(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY name, product_id")).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "name"}).
			AddRow("p2", "Gadget").
			AddRow("p1", "Widget"))

	products, err := repo.FindAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.Product{{ID: "p2", Name: "Gadget"}, {ID: "p1", Name: "Widget"}}, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_UniqueViolationIsDuplicateKey(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO product")).
		WithArgs("p1", "Widget").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "product_pkey"})

	_, err := repo.Save(context.Background(), domain.Product{ID: "p1", Name: "Widget"})

	assert.True(t, apperror.IsConflict(err))
	_, category, msg := apperror.MapToHTTPStatus(err)
	assert.Equal(t, "DUPLICATE_KEY", category)
	assert.Equal(t, "ID de produto já existe.", msg)
}

func TestSave_OtherErrorsAreInternal(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO product")).WillReturnError(errors.New("conexão perdida"))

	_, err := repo.Save(context.Background(), domain.Product{ID: "p1", Name: "Widget"})

	status, _, _ := apperror.MapToHTTPStatus(err)
	assert.Equal(t, 500, status)
}

func TestUpdateName_UnknownIDIsNotFound(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE product")).
		WithArgs("Novo", "nope").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "name"}))

	_, err := repo.UpdateName(context.Background(), domain.Product{ID: "nope", Name: "Novo"})

	assert.True(t, apperror.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_UnknownIDIsNotFound(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM product WHERE product_id = $1")).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "name"}))

	_, err := repo.FindByID(context.Background(), "nope")

	assert.True(t, apperror.IsNotFound(err))
}

func TestExists(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "p1")

	require.NoError(t, err)
	assert.True(t, exists)
}
