package consts

const (
	ApplicationName    = "Chirp"
	ApplicationVersion = "1.0.0"
)

// 分页默认值，配置缺省时生效
const (
	DefaultPostsPerPage     = 10
	DefaultFollowersPerPage = 50
	DefaultCommentsPerPage  = 15
)
