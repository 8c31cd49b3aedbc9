package defs

const (
	EPERM  Err_t = 1
	ENOENT Err_t = 2
	EINTR  Err_t = 4
	EIO    Err_t = 5
	EAGAIN Err_t = 11
	ENOMEM Err_t = 12
	EACCES Err_t = 13
	EFAULT Err_t = 14
	EBUSY  Err_t = 16
	ENODEV Err_t = 19
	EINVAL Err_t = 22
	ENOSYS Err_t = 38
)

type Err_t int
