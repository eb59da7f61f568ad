package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/disbursement_notifier/internal/apperrors"
	"github.com/SscSPs/disbursement_notifier/internal/core/domain"
	portssvc "github.com/SscSPs/disbursement_notifier/internal/core/ports/services"
	"github.com/SscSPs/disbursement_notifier/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock EmailDispatcher ---
type MockEmailDispatcher struct {
	mock.Mock
}

func (m *MockEmailDispatcher) Name() string {
	return "mock"
}

func (m *MockEmailDispatcher) Send(ctx context.Context, msg domain.OutboundEmail) (domain.DispatchReceipt, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(domain.DispatchReceipt), args.Error(1)
}

var _ portssvc.EmailDispatcher = (*MockEmailDispatcher)(nil)

// --- Test Suite ---
type NotificationServiceTestSuite struct {
	suite.Suite
	dispatcher *MockEmailDispatcher
	service    portssvc.DisbursementSvcFacade
	now        time.Time
}

func (suite *NotificationServiceTestSuite) SetupTest() {
	suite.dispatcher = new(MockEmailDispatcher)
	suite.now = time.Date(2025, 10, 26, 16, 30, 0, 0, time.FixedZone("ICT", 7*3600))
	renderer := services.NewEmailRenderer(services.LogoResolver{PublicBaseURL: "https://notify.y99.vn"})
	suite.service = services.NewNotificationService(renderer, suite.dispatcher, "Y99 <no-reply@y99.vn>",
		services.WithClock(func() time.Time { return suite.now }))
}

func (suite *NotificationServiceTestSuite) TestSend_Success() {
	ctx := context.Background()
	rec := domain.SampleLoanDisbursement()
	rec.CCEmails = "a@x.com, bad, b@y.org"
	rec.Attachments = []domain.Attachment{{Filename: "hop-dong.pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.4")}}

	suite.dispatcher.On("Send", mock.Anything, mock.MatchedBy(func(msg domain.OutboundEmail) bool {
		return msg.From == "Y99 <no-reply@y99.vn>" &&
			msg.To == "np95085@gmail.com" &&
			len(msg.CC) == 2 && msg.CC[0] == "a@x.com" && msg.CC[1] == "b@y.org" &&
			msg.Subject == services.EmailSubject("AP261025021") &&
			len(msg.Attachments) == 1
	})).Return(domain.DispatchReceipt{ID: "msg-1", Provider: "mock"}, nil).Once()

	res, err := suite.service.SendDisbursementNotice(ctx, &rec)

	suite.Require().NoError(err)
	suite.Equal("msg-1", res.MessageID)
	suite.Equal("mock", res.Provider)
	suite.Equal("np95085@gmail.com", res.To)
	suite.Equal([]string{"a@x.com", "b@y.org"}, res.CC)
	suite.Equal(services.EmailSubject("AP261025021"), res.Subject)
	suite.Equal([]domain.AttachmentMeta{{Name: "hop-dong.pdf", Size: 8, Type: "application/pdf"}}, res.Attachments)
	suite.True(res.SentAt.Equal(suite.now))
	suite.Equal(time.UTC, res.SentAt.Location())
	suite.dispatcher.AssertExpectations(suite.T())
}

func (suite *NotificationServiceTestSuite) TestSend_HTMLCarriesAmounts() {
	rec := domain.SampleLoanDisbursement()

	var sent domain.OutboundEmail
	suite.dispatcher.On("Send", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(domain.OutboundEmail) }).
		Return(domain.DispatchReceipt{ID: "msg-2", Provider: "mock"}, nil).Once()

	_, err := suite.service.SendDisbursementNotice(context.Background(), &rec)

	suite.Require().NoError(err)
	suite.Empty(sent.CC)
	suite.Contains(sent.HTML, "2.700.000 VNĐ")
	suite.Contains(sent.HTML, "AP261025021")
}

func (suite *NotificationServiceTestSuite) TestSend_ValidationNeverDispatches() {
	cases := map[string]func(r *domain.LoanDisbursement){
		"invalid email":       func(r *domain.LoanDisbursement) { r.CustomerEmail = "not-an-email" },
		"all cc invalid":      func(r *domain.LoanDisbursement) { r.CCEmails = "bad, worse" },
		"missing field":       func(r *domain.LoanDisbursement) { r.BeneficiaryName = "" },
		"amount exceeds loan": func(r *domain.LoanDisbursement) { r.DisbursementAmount = 5_000_000 },
	}
	for name, mutate := range cases {
		suite.Run(name, func() {
			rec := domain.SampleLoanDisbursement()
			mutate(&rec)

			res, err := suite.service.SendDisbursementNotice(context.Background(), &rec)

			suite.Nil(res)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.dispatcher.AssertNotCalled(suite.T(), "Send", mock.Anything, mock.Anything)
}

func (suite *NotificationServiceTestSuite) TestSend_DispatchErrorIsWrapped() {
	rec := domain.SampleLoanDisbursement()
	dispatchErr := &apperrors.DispatchError{Provider: "mock", Code: apperrors.CodeProviderRejected, Message: "invalid_to", StatusCode: 422}

	suite.dispatcher.On("Send", mock.Anything, mock.Anything).Return(domain.DispatchReceipt{}, dispatchErr).Once()

	res, err := suite.service.SendDisbursementNotice(context.Background(), &rec)

	suite.Nil(res)
	suite.ErrorIs(err, apperrors.ErrDispatch)
	suite.ErrorContains(err, "AP261025021")
	suite.ErrorContains(err, "invalid_to")
	suite.Equal(apperrors.CodeProviderRejected, apperrors.Code(err))
}

func (suite *NotificationServiceTestSuite) TestPreview() {
	rec := domain.SampleLoanDisbursement()

	out, err := suite.service.PreviewDisbursementNotice(context.Background(), &rec)

	suite.Require().NoError(err)
	suite.Equal(services.EmailSubject("AP261025021"), out.Subject)
	suite.Contains(out.HTML, "https://notify.y99.vn/logo.png")
	suite.dispatcher.AssertNotCalled(suite.T(), "Send", mock.Anything, mock.Anything)
}

func (suite *NotificationServiceTestSuite) TestPreview_Invalid() {
	rec := domain.SampleLoanDisbursement()
	rec.ContractCode = ""

	_, err := suite.service.PreviewDisbursementNotice(context.Background(), &rec)

	suite.ErrorIs(err, apperrors.ErrMissingField)
}

func TestNotificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}
