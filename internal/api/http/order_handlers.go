package httpapi

import (
	"net/http"
	"strconv"

	"kungfu-delivery/internal/domain"
)

type statusUpdate struct {
	Status string `json:"status"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateOrder
	if err := h.Validator.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	placed, err := h.Orders.Create(r.Context(), principal(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	message := "订单创建成功，等待支付"
	if placed.PaymentStatus == domain.PaymentPaid {
		message = "订单创建成功，已使用余额支付"
	}
	writeCreated(w, message, map[string]any{
		"order_id":       placed.OrderID,
		"total_amount":   placed.TotalAmount,
		"status":         placed.Status,
		"payment_status": placed.PaymentStatus,
		"qr_code":        h.Orders.QRLink(placed.OrderID),
	})
}

func (h *Handler) paySuccess(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.Orders.PaySuccess(r.Context(), principal(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "支付成功，订单已确认", map[string]any{
		"order_id":       order.ID,
		"payment_status": order.PaymentStatus,
		"status":         order.Status,
	})
}

func (h *Handler) payFailure(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.Orders.PayFailure(r.Context(), principal(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "支付失败", map[string]any{
		"order_id":       order.ID,
		"payment_status": order.PaymentStatus,
	})
}

func (h *Handler) orderHistory(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.History(r.Context(), principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.Orders.Detail(r.Context(), principal(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	qrCode, err := h.Orders.QRCode(r.Context(), principal(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(qrCode) == 0 {
		writeFail(w, http.StatusNotFound, "二维码不存在")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(qrCode)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qrCode)
}

func (h *Handler) listAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListAll(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", orders)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in statusUpdate
	if err := h.Validator.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.Orders.UpdateStatus(r.Context(), id, in.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "订单状态更新成功", map[string]any{
		"order_id":       order.ID,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
	})
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Orders.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "订单删除成功", nil)
}
