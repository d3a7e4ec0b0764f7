package handler

type errcode int

const (
	errBadRequest errcode = 10001 + iota
	errInternalServer
	errNotFound
	errRigOffline
)

func (e errcode) String() string {
	switch e {
	case errBadRequest:
		return "请求内容有误"
	case errInternalServer:
		return "服务处理错误"
	case errNotFound:
		return "记录不存在"
	case errRigOffline:
		return "井场数据未接入"
	default:
		return "未知错误"
	}
}

type apiResponse struct {
	Code    errcode `json:"code"`
	Message string  `json:"message"`
	Data    any     `json:"data,omitempty"`
}

func success(data any) apiResponse {
	return apiResponse{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

func fail(code errcode, message string) apiResponse {
	return apiResponse{
		Code:    code,
		Message: message,
	}
}

type wellUri struct {
	ID int64 `uri:"id" binding:"required"`
}

type runUri struct {
	RunID string `uri:"runId" binding:"required"`
}

type createWellRequest struct {
	Name       string  `json:"name" binding:"required"`
	TotalDepth float64 `json:"totalDepth"`
	ControlMD  float64 `json:"controlMd"`
	TargetESD  float64 `json:"targetEsd"`
	Dial600    float64 `json:"dial600"`
	Dial300    float64 `json:"dial300"`
}
