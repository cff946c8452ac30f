package constants

// Pesan baku (bahasa Vietnam) yang dikirim ke klien.
// Detail error internal hanya masuk log server.
const (
	MsgLoginRequired = "Vui lòng đăng nhập"
	MsgForbidden     = "Bạn không có quyền thực hiện thao tác này"
	MsgGenericError  = "Đã xảy ra lỗi, vui lòng thử lại"
	MsgInvalidJSON   = "Dữ liệu gửi lên không hợp lệ"
	MsgInvalidInput  = "Dữ liệu không hợp lệ"

	// dictionaries
	MsgDictCategories  = "Không thể tải danh sách danh mục"
	MsgDictCompanies   = "Không thể tải danh sách công ty"
	MsgDictCosts       = "Không thể tải danh sách giá"
	MsgDictCustomers   = "Không thể tải danh sách khách hàng"
	MsgDictKitTypes    = "Không thể tải danh sách loại kit"
	MsgDictSampleTypes = "Không thể tải danh sách loại mẫu"
	MsgDictUnknown     = "Không tìm thấy danh mục dữ liệu"

	// kits
	MsgBatchCodeExists   = "Mã lô đã tồn tại"
	MsgKitTypeNotExists  = "Loại kit không tồn tại"
	MsgKitTypeNotFound   = "Không tìm thấy kit loại này"
	MsgStockExceeded     = "Chuyển quá số lượng tồn kho"
	MsgNotEnoughKitsFmt  = "Không đủ kit để điều chỉnh (cần %d, có %d)"
	MsgNoKitLeftFmt      = "Không còn kit %s"
	MsgNoKitLeftFallback = "loại này"
	MsgExpiresBeforeBuy  = "Ngày hết hạn phải sau ngày mua"

	// samples
	MsgSampleNotFound      = "Không tìm thấy mẫu"
	MsgSampleIDInvalid     = "ID mẫu không hợp lệ"
	MsgSampleCodeExists    = "Mã mẫu đã tồn tại"
	MsgKitUnavailable      = "Kit không tồn tại hoặc đã được sử dụng"
	MsgKitOrAssignRequired = "Phải cung cấp kit_id hoặc assignNext=true"
	MsgKitTypeRequired     = "Phải cung cấp kit_type_id khi assignNext=true"
	MsgReceivedAtRequired  = "Tham số receivedAt là bắt buộc"
	MsgReceivedAtInvalid   = "Ngày nhận không hợp lệ"
	MsgExportFailed        = "Không thể xuất danh sách mẫu"

	// auth
	MsgBadCredentials = "Email hoặc mật khẩu không đúng"
	MsgAccountLocked  = "Tài khoản đã bị vô hiệu hóa"
	MsgMissingSecret  = "Missing JWT Secret"
	MsgTooManyRequest = "Quá nhiều yêu cầu, vui lòng thử lại sau"
)
