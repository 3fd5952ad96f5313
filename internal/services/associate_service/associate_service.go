package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"pgm_storefront/internal/domain/models"
	"pgm_storefront/internal/transport/client"
)

const (
	associatesPath     = "/associates"
	bankDetailsPath    = "/bankDetails"
	paymentHistoryPath = "/api/nodePaymentHistory"
	accountsPath       = "/api/pgm-accounts"
	documentsPath      = "/documents"
	distributorsPath   = "/distributors"
)

var ErrNoDocument = errors.New("document file is required")

// AssociateService is the associate back office: the network tree, bank
// details and payouts on the core backend, KYC documents on the user backend
// and BV points on the product backend.
type AssociateService struct {
	log      *slog.Logger
	core     *client.Client
	users    *client.Client
	products *client.Client
}

func NewAssociateService(log *slog.Logger, core, users, products *client.Client) *AssociateService {
	return &AssociateService{
		log:      log,
		core:     core,
		users:    users,
		products: products,
	}
}

// SelfData returns the associate record of the signed-in user.
func (s *AssociateService) SelfData(ctx context.Context, token string) models.Result[models.AssociateProfile] {
	return client.Get[models.AssociateProfile](ctx, s.core, associatesPath+"/self/data", client.WithToken(token))
}

func (s *AssociateService) ListAssociates(ctx context.Context, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.core, associatesPath, client.WithToken(token))
}

func (s *AssociateService) CreateAssociate(ctx context.Context, a models.Associate, token string) models.Result[models.Associate] {
	return client.Post[models.Associate](ctx, s.core, associatesPath, a, client.WithToken(token))
}

func (s *AssociateService) UpdateAssociate(ctx context.Context, id int64, a models.Associate, token string) models.Result[models.Associate] {
	return client.Put[models.Associate](ctx, s.core, associatePath(id, ""), a, client.WithToken(token))
}

func (s *AssociateService) Downstream(ctx context.Context, id int64, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.core, fmt.Sprintf("%s/downstream/%d", associatesPath, id), client.WithToken(token))
}

func (s *AssociateService) Upstream(ctx context.Context, id int64, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.core, fmt.Sprintf("%s/upstream/%d", associatesPath, id), client.WithToken(token))
}

// Tree returns the nested downline rooted at id as the backend sends it.
func (s *AssociateService) Tree(ctx context.Context, id int64, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.core, fmt.Sprintf("%s/tree/%d", associatesPath, id), client.WithToken(token))
}

func (s *AssociateService) ReferredUsers(ctx context.Context, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.core, associatesPath+"/referred/users", client.WithToken(token))
}

func (s *AssociateService) UpdateParent(ctx context.Context, id, parentID int64, bvValue float64, token string) models.Result[models.Associate] {
	const op = "services.AssociateService.UpdateParent"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("associate_id", id),
		slog.Int64("parent_id", parentID),
	)

	res := client.Put[models.Associate](ctx, s.core, associatePath(id, "/parent"), models.UpdateParentRequest{
		ParentID: parentID,
		BVValue:  bvValue,
	}, client.WithToken(token))
	if !res.Success {
		log.Warn("failed to move associate", slog.String("error", res.Error))
		return res
	}

	log.Info("associate moved")
	return res
}

func (s *AssociateService) PaymentHistory(ctx context.Context, nodeID int64, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.core, fmt.Sprintf("%s/%d", paymentHistoryPath, nodeID), client.WithToken(token))
}

func (s *AssociateService) PaymentSummary(ctx context.Context, nodeID int64, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.core, fmt.Sprintf("%s/summary/%d", paymentHistoryPath, nodeID), client.WithToken(token))
}

func (s *AssociateService) RepurchaseSummary(ctx context.Context, id int64, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.core, associatePath(id, "/repurchase-summary"), client.WithToken(token))
}

func (s *AssociateService) ByReferralCode(ctx context.Context, code string, token string) models.Result[models.Associate] {
	return client.Get[models.Associate](ctx, s.core, associatesPath+"/referral/"+url.PathEscape(code), client.WithToken(token))
}

func (s *AssociateService) BankDetails(ctx context.Context, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.core, bankDetailsPath, client.WithToken(token))
}

func (s *AssociateService) AddBankDetails(ctx context.Context, b models.BankDetails, token string) models.Result[models.BankDetails] {
	return client.Post[models.BankDetails](ctx, s.core, bankDetailsPath, b, client.WithToken(token))
}

func (s *AssociateService) UpdateBankDetails(ctx context.Context, id int64, b models.BankDetails, token string) models.Result[models.BankDetails] {
	return client.Put[models.BankDetails](ctx, s.core, fmt.Sprintf("%s/%d", bankDetailsPath, id), b, client.WithToken(token))
}

func (s *AssociateService) BankDetailsByID(ctx context.Context, id int64, token string) models.Result[models.BankDetails] {
	return client.Get[models.BankDetails](ctx, s.core, fmt.Sprintf("%s/%d", bankDetailsPath, id), client.WithToken(token))
}

// UploadDocument sends one KYC document to the user backend.
func (s *AssociateService) UploadDocument(ctx context.Context, documentType string, file *models.File, token string) models.Result[models.UploadDocument] {
	const op = "services.AssociateService.UploadDocument"

	if file == nil {
		return models.Fail[models.UploadDocument](fmt.Sprintf("%s: %v", op, ErrNoDocument), 0)
	}

	form := client.NewForm().
		Field("documentType", documentType).
		File("documents", file)

	res := client.PostMultipart[models.UploadDocument](ctx, s.users, documentsPath, form, client.WithToken(token))
	if res.Success {
		s.log.Info("document uploaded",
			slog.String("op", op),
			slog.String("type", documentType),
			slog.Int("size", len(file.Content)),
		)
	}

	return res
}

func (s *AssociateService) UserDocuments(ctx context.Context, userID int64, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.users, fmt.Sprintf("%s/user/%d", documentsPath, userID), client.WithToken(token))
}

func (s *AssociateService) DeleteDocument(ctx context.Context, id int64, token string) models.Result[json.RawMessage] {
	return client.Delete[json.RawMessage](ctx, s.users, fmt.Sprintf("%s/%d", documentsPath, id), client.WithToken(token))
}

func (s *AssociateService) Distributors(ctx context.Context, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.core, distributorsPath, client.WithToken(token))
}

func (s *AssociateService) CreateDistributor(ctx context.Context, d models.Distributor, token string) models.Result[json.RawMessage] {
	return client.Post[json.RawMessage](ctx, s.core, distributorsPath, d, client.WithToken(token))
}

func (s *AssociateService) CompanyAccounts(ctx context.Context, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.core, accountsPath+"/accounts", client.WithToken(token))
}

func (s *AssociateService) CompanyTransactions(ctx context.Context, accountID int64, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.core, fmt.Sprintf("%s/transactions/%d", accountsPath, accountID), client.WithToken(token))
}

// BVPoints lives on the product backend.
func (s *AssociateService) BVPoints(ctx context.Context, userID int64, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.products, fmt.Sprintf("/api/bvPoints/%d", userID), client.WithToken(token))
}

func associatePath(id int64, suffix string) string {
	return fmt.Sprintf("%s/%d%s", associatesPath, id, suffix)
}
