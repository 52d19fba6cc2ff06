package common

// Форматы callback data
const (
	// Запись на занятие
	CbDate       = "date:" // date:2026-03-11
	CbTime       = "time:" // time:09:00
	CbFlowBack   = "flow_back"
	CbConfirm    = "flow_confirm"
	CbFlowCancel = "flow_cancel"
	CbBookAgain  = "book_again"

	// Мои записи
	CbMyBookings    = "my_bookings"
	CbCancelBooking = "cancel_booking:" // cancel_booking:<uuid>
	CbConfirmCancel = "confirm_cancel:" // confirm_cancel:<uuid>

	// Администратор
	CbAgenda             = "agenda"
	CbAdminDelete        = "admin_delete:"         // admin_delete:<uuid>
	CbAdminConfirmDelete = "admin_confirm_delete:" // admin_confirm_delete:<uuid>
	CbStudents           = "students"
	CbStudent            = "student:"      // student:<uuid>
	CbRoutine            = "routine:"      // routine:<uuid>:<day>
	CbRoutineEdit        = "routine_edit:" // routine_edit:<uuid>:<day>

	// Удалить служебное сообщение (подтверждение)
	CbDismiss = "dismiss"
)
