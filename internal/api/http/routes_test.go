package httpapi

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"kungfu-delivery/internal/apperr"
	"kungfu-delivery/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCartRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.customerToken(t)

	t.Run("get", func(t *testing.T) {
		s.cart.On("Get", mock.Anything, customerID).
			Return(&domain.CartView{Items: []domain.CartItemView{}, TotalAmount: decimal.RequireFromString("45.00")}, nil).Once()

		rr := s.do(t, http.MethodGet, "/api/cart", token, nil, "")
		require.Equal(t, http.StatusOK, rr.Code)
		env := decodeBody(t, rr)
		assert.Equal(t, msgSuccess, env.Message)
		assert.EqualValues(t, 45.0, decodeData(t, env)["total_amount"])
	})

	t.Run("add", func(t *testing.T) {
		in := domain.AddCartItem{ItemID: 3, ItemType: domain.ItemTypeDish, Quantity: 2, SelectedFlavors: []string{"微辣"}}
		s.cart.On("AddItem", mock.Anything, customerID, in).
			Return(&domain.CartLine{ID: 11, UserID: customerID, Quantity: 2}, nil).Once()

		rr := s.doJSON(t, http.MethodPost, "/api/cart", token, in)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "商品已添加到购物车", decodeBody(t, rr).Message)
	})

	t.Run("add rejected by service", func(t *testing.T) {
		in := domain.AddCartItem{ItemID: 3, ItemType: "drink", Quantity: 1}
		s.cart.On("AddItem", mock.Anything, customerID, in).
			Return(nil, apperr.Validation("无效的商品类型")).Once()

		rr := s.doJSON(t, http.MethodPost, "/api/cart", token, in)
		require.Equal(t, http.StatusBadRequest, rr.Code)
		env := decodeBody(t, rr)
		assert.Equal(t, http.StatusBadRequest, env.Code)
		assert.Equal(t, "无效的商品类型", env.Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/cart", token, bytes.NewBufferString("{"), "application/json")
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, msgBadJSON, decodeBody(t, rr).Message)
	})

	t.Run("remove missing line", func(t *testing.T) {
		s.cart.On("RemoveItem", mock.Anything, customerID, 99).
			Return(apperr.NotFound("购物车商品不存在")).Once()

		rr := s.do(t, http.MethodDelete, "/api/cart/items/99", token, nil, "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("clear", func(t *testing.T) {
		s.cart.On("Clear", mock.Anything, customerID).Return(nil).Once()

		rr := s.do(t, http.MethodDelete, "/api/cart/clear", token, nil, "")
		require.Equal(t, http.StatusOK, rr.Code)
		env := decodeBody(t, rr)
		assert.Equal(t, "购物车已清空", env.Message)
		assert.Equal(t, "null", string(env.Data))
	})
}

func TestCreateOrder(t *testing.T) {
	tests := []struct {
		name      string
		placed    *domain.OrderPlaced
		err       error
		wantCode  int
		wantMsg   string
		wantState string
	}{
		{
			name:      "balance payment",
			placed:    &domain.OrderPlaced{OrderID: 5, TotalAmount: decimal.NewFromInt(45), Status: domain.StatusPreparing, PaymentStatus: domain.PaymentPaid},
			wantCode:  http.StatusCreated,
			wantMsg:   "订单创建成功，已使用余额支付",
			wantState: "preparing",
		},
		{
			name:      "external payment",
			placed:    &domain.OrderPlaced{OrderID: 5, TotalAmount: decimal.NewFromInt(45), Status: domain.StatusPending, PaymentStatus: domain.PaymentUnpaid},
			wantCode:  http.StatusCreated,
			wantMsg:   "订单创建成功，等待支付",
			wantState: "pending",
		},
		{
			name:     "insufficient balance",
			err:      apperr.InsufficientFunds("余额不足"),
			wantCode: http.StatusBadRequest,
			wantMsg:  "余额不足",
		},
		{
			name:     "storage failure",
			err:      errors.New("connection refused"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  msgInternal,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			s := newTestServer(t)
			in := domain.CreateOrder{AddressID: 2, PaymentMethod: domain.PaymentMethodBalance}
			s.orders.On("Create", mock.Anything, customerID, in).Return(testCase.placed, testCase.err).Once()
			if testCase.placed != nil {
				s.orders.On("QRLink", 5).Return("/api/orders/5/qrcode").Once()
			}

			rr := s.doJSON(t, http.MethodPost, "/api/orders", s.customerToken(t), in)
			require.Equal(t, testCase.wantCode, rr.Code)
			env := decodeBody(t, rr)
			assert.Equal(t, testCase.wantMsg, env.Message)
			if testCase.placed == nil {
				return
			}
			data := decodeData(t, env)
			assert.Equal(t, testCase.wantState, data["status"])
			assert.Equal(t, "/api/orders/5/qrcode", data["qr_code"])
			assert.Equal(t, float64(5), data["order_id"])
		})
	}
}

func TestPayAndQRCodeRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.customerToken(t)

	s.orders.On("PaySuccess", mock.Anything, customerID, 5).
		Return(&domain.Order{ID: 5, Status: domain.StatusConfirmed, PaymentStatus: domain.PaymentPaid}, nil).Once()
	s.orders.On("PaySuccess", mock.Anything, customerID, 6).
		Return(nil, apperr.ConflictBadRequest("订单已支付")).Once()
	s.orders.On("QRCode", mock.Anything, customerID, 5).Return([]byte{0x89, 'P', 'N', 'G'}, nil).Once()
	s.orders.On("QRCode", mock.Anything, customerID, 6).Return([]byte{}, nil).Once()

	rr := s.do(t, http.MethodPost, "/api/orders/5/pay/success", token, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "confirmed", decodeData(t, decodeBody(t, rr))["status"])

	rr = s.do(t, http.MethodPost, "/api/orders/6/pay/success", token, nil, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "订单已支付", decodeBody(t, rr).Message)

	rr = s.do(t, http.MethodGet, "/api/orders/5/qrcode", token, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, rr.Body.Bytes())

	rr = s.do(t, http.MethodGet, "/api/orders/6/qrcode", token, nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdminOrderStatus(t *testing.T) {
	s := newTestServer(t)
	s.orders.On("UpdateStatus", mock.Anything, 5, "refunded").
		Return(&domain.Order{ID: 5, Status: domain.StatusCancelled, PaymentStatus: domain.PaymentRefunded}, nil).Once()

	rr := s.doJSON(t, http.MethodPut, "/api/orders/admin/5", s.adminToken(t), statusUpdate{Status: "refunded"})
	require.Equal(t, http.StatusOK, rr.Code)
	data := decodeData(t, decodeBody(t, rr))
	assert.Equal(t, "refunded", data["payment_status"])
}

func TestStatisticsRoutes(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		setup    func(s *testServer)
		wantCode int
	}{
		{
			name: "hot dishes with limit",
			path: "/api/statistics/hot-dishes?limit=5",
			setup: func(s *testServer) {
				s.stats.On("HotItems", mock.Anything, domain.ItemTypeDish, 5).Return([]domain.HotItem{}, nil).Once()
			},
			wantCode: http.StatusOK,
		},
		{
			name: "hot combos default limit",
			path: "/api/statistics/hot-combos",
			setup: func(s *testServer) {
				s.stats.On("HotItems", mock.Anything, domain.ItemTypeCombo, 0).Return([]domain.HotItem{}, nil).Once()
			},
			wantCode: http.StatusOK,
		},
		{
			name:     "bad limit",
			path:     "/api/statistics/hot-dishes?limit=ten",
			setup:    func(s *testServer) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "turnover passes query",
			path: "/api/statistics/turnover?period=custom&start_date=2024-01-01&end_date=2024-01-31",
			setup: func(s *testServer) {
				s.stats.On("Turnover", mock.Anything, "custom", "2024-01-01", "2024-01-31").
					Return(nil, apperr.Validation("无效的日期范围")).Once()
			},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			s := newTestServer(t)
			testCase.setup(s)

			rr := s.do(t, http.MethodGet, testCase.path, s.adminToken(t), nil, "")
			assert.Equal(t, testCase.wantCode, rr.Code)
		})
	}
}

func multipartImage(t *testing.T, field, filename, contentType string, content []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestUploadDishImage(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		filename    string
		contentType string
		wantCode    int
		wantMsg     string
	}{
		{name: "png", field: "image", filename: "Dish.PNG", contentType: "image/png", wantCode: http.StatusOK, wantMsg: "图片上传成功"},
		{name: "text file", field: "image", filename: "notes.txt", contentType: "text/plain", wantCode: http.StatusBadRequest, wantMsg: msgImageType},
		{name: "wrong field", field: "file", filename: "a.png", contentType: "image/png", wantCode: http.StatusBadRequest, wantMsg: msgImageRequired},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			s := newTestServer(t)
			if testCase.wantCode == http.StatusOK {
				s.catalog.On("SetDishImage", mock.Anything, 3, ".png", mock.Anything).
					Return(&domain.Dish{ID: 3, ImageURL: "/uploads/dishes/x.png"}, nil).Once()
			}

			body, contentType := multipartImage(t, testCase.field, testCase.filename, testCase.contentType, []byte("img"))
			rr := s.do(t, http.MethodPost, "/api/dishes/admin/3/image", s.adminToken(t), body, contentType)
			require.Equal(t, testCase.wantCode, rr.Code)
			assert.Equal(t, testCase.wantMsg, decodeBody(t, rr).Message)
		})
	}
}

func TestUploadTooLarge(t *testing.T) {
	s := newTestServer(t)
	s.handler.Validator = NewRequestValidator(1 << 20)

	body, contentType := multipartImage(t, "image", "big.png", "image/png", bytes.Repeat([]byte("x"), 1<<20+10))
	rr := s.do(t, http.MethodPost, "/api/dishes/admin/3/image", s.adminToken(t), body, contentType)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "图片大小不能超过 1MB", decodeBody(t, rr).Message)
}

func TestAddressRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.customerToken(t)

	s.addresses.On("Create", mock.Anything, customerID, mock.MatchedBy(func(in domain.AddressInput) bool {
		return in.RecipientName != nil && *in.RecipientName == "张三" && in.IsDefault == nil
	})).Return(&domain.Address{ID: 4, UserID: customerID, RecipientName: "张三", IsDefault: true}, nil).Once()
	s.addresses.On("Delete", mock.Anything, customerID, 4).
		Return(apperr.ConflictBadRequest("不能删除默认地址")).Once()

	rr := s.doJSON(t, http.MethodPost, "/api/addresses", token, map[string]any{
		"recipient_name": "张三",
		"phone_number":   "13800000000",
		"building_name":  "西区 3 号楼",
		"room_details":   "402",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	data := decodeData(t, decodeBody(t, rr))
	assert.Equal(t, true, data["is_default"])

	rr = s.do(t, http.MethodDelete, "/api/addresses/4", token, nil, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "不能删除默认地址", decodeBody(t, rr).Message)
}
