package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/edumanage/educenter/internal/pkg/apperrors"
)

// Shown for every missing required field
const MsgRequired = "Vui lòng điền đầy đủ thông tin"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	registerRules(v)
	return v
}

// Struct validates obj and returns a validation error whose user message is the
// Vietnamese text of the first failing field. Every failing field is listed in
// the error details.
func Struct(obj interface{}) error {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewCustomError(apperrors.ErrBadRequest, err.Error())
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = Message(fe)
		}
	}
	return apperrors.NewValidationError(Message(fieldErrs[0]), fields)
}

// Message translates one field error to Vietnamese
func Message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "email":
		return "Email không hợp lệ"
	case "vnphone":
		return "Số điện thoại không hợp lệ"
	case "pastdate":
		return "Ngày sinh không được ở tương lai"
	case "eqfield":
		return "Mật khẩu xác nhận không khớp"
	case "clock":
		return "Giờ không hợp lệ (định dạng HH:MM)"
	case "datetime":
		return "Ngày không hợp lệ (định dạng YYYY-MM-DD)"
	case "alphanum":
		return "Tên đăng nhập chỉ được chứa chữ cái và chữ số"
	case "uuid", "len", "numeric":
		return fmt.Sprintf("Mã %s không hợp lệ", field)
	case "oneof":
		return fmt.Sprintf("Giá trị của %s không hợp lệ", field)
	case "min":
		switch field {
		case "password", "newPassword":
			return fmt.Sprintf("Mật khẩu phải có ít nhất %d ký tự", PasswordMinLength)
		case "username":
			return fmt.Sprintf("Tên đăng nhập phải có ít nhất %s ký tự", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return MsgRequired
		}
		return fmt.Sprintf("Giá trị của %s phải lớn hơn hoặc bằng %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s không được vượt quá %s ký tự", field, fe.Param())
		}
		return fmt.Sprintf("Giá trị của %s phải nhỏ hơn hoặc bằng %s", field, fe.Param())
	case "unique":
		return fmt.Sprintf("Danh sách %s có mục bị trùng", field)
	case "gte", "lte":
		return fmt.Sprintf("Giá trị của %s không hợp lệ", field)
	default:
		return fmt.Sprintf("Trường %s không hợp lệ", field)
	}
}
